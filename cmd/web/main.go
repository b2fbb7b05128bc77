package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Neruelin/astroids/internal/config"
	"github.com/Neruelin/astroids/internal/game"
	loopconfig "github.com/Neruelin/astroids/internal/loop/config"
	"github.com/Neruelin/astroids/internal/loop/server"
	"github.com/Neruelin/astroids/internal/loop/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	logger := config.NewLogger(os.Stderr, "web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	maxSessions, err := config.GetEnvInt("MAX_SESSIONS", loopconfig.MaxSessions)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	fps, err := config.GetEnvInt("ASTEROIDS_FPS", 0)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	seed, err := config.SeedSource("ASTEROIDS_SEED")
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	cfg := game.DefaultConfig()
	cfg.ClampPlayer = true
	registry := server.NewRegistry(maxSessions, logger)
	page := renderPage(htmlPage, sshHost, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.Handle("/play", web.NewHandler(web.Options{
		Config:      cfg,
		Seed:        seed,
		FPS:         fps,
		IdleTimeout: loopconfig.InactivityDisconnectUser,
		Registry:    registry,
		Logger:      logger,
		CheckOrigin: func(*http.Request) bool { return true },
	}))

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting web server", "url", "http://"+srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "error", err)
		}
	}()

	<-done
	logger.Info("Shutting down server, notifying connected players")
	// Websockets are hijacked, so srv.Shutdown does not wait for them.
	if !registry.Shutdown(loopconfig.ShutdownTimeout) {
		logger.Warn("closing remaining sessions", "active", registry.Len())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "error", err)
	}
}

// renderPage fills the page placeholders with the SSH host and the sizes the
// browser needs to draw snapshots.
func renderPage(page, sshHost string, cfg game.Config) string {
	r := strings.NewReplacer(
		"{{.SSHHost}}", sshHost,
		"{{.Width}}", fmt.Sprint(cfg.Width),
		"{{.Height}}", fmt.Sprint(cfg.Height),
		"{{.PlayerRadius}}", fmt.Sprint(cfg.PlayerRadius),
		"{{.BulletRadius}}", fmt.Sprint(cfg.BulletRadius),
		"{{.AsteroidRadius}}", fmt.Sprint(cfg.AsteroidRadius),
	)
	return r.Replace(page)
}
