//go:build glfw

// Command gl plays the game in a desktop window drawn with legacy OpenGL.
// Build with -tags glfw; it needs cgo and the GL/GLFW headers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/Neruelin/astroids/internal/config"
	"github.com/Neruelin/astroids/internal/game"
	"github.com/Neruelin/astroids/internal/loop"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	logger := config.NewLogger(os.Stderr, "gl")

	seed, err := config.SeedSource("ASTEROIDS_SEED")
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	fps, err := config.GetEnvInt("ASTEROIDS_FPS", 0)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	cfg := game.DefaultConfig()
	cfg.ClampPlayer = true
	g, err := game.New(cfg, seed())
	if err != nil {
		logger.Fatal("could not create game", "error", err)
	}

	win, err := initWindow(cfg)
	if err != nil {
		logger.Fatal("could not open window", "error", err)
	}
	defer glfw.Terminate()
	defer win.Destroy()

	if err := gl.Init(); err != nil {
		logger.Fatal("gl init", "error", err)
	}
	logger.Debug("OpenGL ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	w := newWindow(win, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := loop.Run(ctx, g, w, w, loop.Options{FPS: fps, Logger: logger})
	if err != nil {
		logger.Error("game error", "error", err)
	}
	fmt.Printf("Score %d, %d asteroids hit in %.1fs (%s)\n",
		res.Snapshot.Score, res.Snapshot.Hits, res.Snapshot.Time, res.Reason)
}

func initWindow(cfg game.Config) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Decorated, glfw.True)

	window, err := glfw.CreateWindow(int(cfg.Width), int(cfg.Height), "Asteroids", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}
