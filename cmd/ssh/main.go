package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/Neruelin/astroids/internal/config"
	"github.com/Neruelin/astroids/internal/draw"
	"github.com/Neruelin/astroids/internal/game"
	"github.com/Neruelin/astroids/internal/loop"
	"github.com/Neruelin/astroids/internal/loop/client"
	loopconfig "github.com/Neruelin/astroids/internal/loop/config"
	"github.com/Neruelin/astroids/internal/loop/server"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// app holds what every SSH session shares: the session registry and the
// game settings. Each session still plays its own game.
type app struct {
	registry *server.Registry
	cfg      game.Config
	seed     func() uint64
	fps      int
	logger   *log.Logger
}

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
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
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "maxSessions", maxSessions)

	cfg := game.DefaultConfig()
	cfg.ClampPlayer = true

	a := &app{
		registry: server.NewRegistry(maxSessions, logger),
		cfg:      cfg,
		seed:     seed,
		fps:      fps,
		logger:   logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "error", err)
		}
	}()

	<-done
	logger.Info("Shutting down server, notifying connected players")
	if !a.registry.Shutdown(loopconfig.ShutdownTimeout) {
		logger.Warn("closing remaining sessions", "active", a.registry.Len())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "error", err)
	}
}

// gameMiddleware runs one game for the session.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		defer next(sess)

		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		session, err := a.registry.Register(sess.User(), sess.RemoteAddr().String())
		if err != nil {
			fmt.Fprintf(sess, "Cannot start a game: %v\n", err)
			return
		}
		defer a.registry.Unregister(session)

		logger := a.logger.With("id", session.ID, "user", sess.User())
		logger.Info("New game session", "terminal", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		g, err := game.New(a.cfg, a.seed())
		if err != nil {
			logger.Error("could not create game", "error", err)
			return
		}

		c := client.New(sess, sess, a.cfg, client.Options{
			TermSizeFunc: sizeTracker.getSize,
			Name:         sess.User(),
		})
		if err := c.Open(); err != nil {
			logger.Warn("could not open terminal", "error", err)
			return
		}
		res, err := loop.Run(sess.Context(), g, c, c, loop.Options{
			FPS:         a.fps,
			IdleTimeout: loopconfig.InactivityDisconnectUser,
			Shutdown:    session.ShutdownNotice(),
			Logger:      logger,
		})
		c.Close()
		if err != nil {
			logger.Warn("Game error", "error", err)
		}

		logger.Info("Session ended", "reason", res.Reason, "score", res.Snapshot.Score, "time", res.Snapshot.Time)
		if res.Reason == loop.EndIdle {
			fmt.Fprintln(sess, "Disconnected for inactivity.")
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
