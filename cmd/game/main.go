package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Neruelin/astroids/internal/config"
	"github.com/Neruelin/astroids/internal/game"
	"github.com/Neruelin/astroids/internal/loop"
	"github.com/Neruelin/astroids/internal/loop/client"
)

func main() {
	logger := config.NewLogger(os.Stderr, "game")

	res, err := run(logger)
	if err != nil {
		logger.Fatal("game error", "error", err)
	}
	fmt.Printf("Score %d, %d asteroids hit in %.1fs (%s)\n",
		res.Snapshot.Score, res.Snapshot.Hits, res.Snapshot.Time, res.Reason)
}

// run plays one game in the current terminal. The terminal is restored
// before it returns.
func run(logger *log.Logger) (loop.Result, error) {
	seed, err := config.SeedSource("ASTEROIDS_SEED")
	if err != nil {
		return loop.Result{}, err
	}
	fps, err := config.GetEnvInt("ASTEROIDS_FPS", 0)
	if err != nil {
		return loop.Result{}, err
	}

	cfg := game.DefaultConfig()
	cfg.ClampPlayer = true
	g, err := game.New(cfg, seed())
	if err != nil {
		return loop.Result{}, err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return loop.Result{}, fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := client.New(os.Stdin, os.Stdout, cfg, client.Options{Name: os.Getenv("USER")})
	if err := c.Open(); err != nil {
		return loop.Result{}, err
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return loop.Run(ctx, g, c, c, loop.Options{FPS: fps, Logger: logger})
}
