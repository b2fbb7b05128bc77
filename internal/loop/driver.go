// Package loop drives a game with the standard Input → Update → Draw cycle.
//
// A front end supplies an InputSource and a Renderer; Run owns the Game for
// the whole session and hands the renderer snapshots only.
package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Neruelin/astroids/internal/game"
	"github.com/Neruelin/astroids/internal/loop/config"
)

// Renderer draws frames for one session.
type Renderer interface {
	// Render draws a running frame.
	Render(s *game.Snapshot) error
	// GameOver draws the end screen. It is called every frame until the player leaves.
	GameOver(s *game.Snapshot) error
	// Shutdown draws the server shutdown notice with the time left before disconnect.
	Shutdown(s *game.Snapshot, remaining time.Duration) error
}

// InputSource reports which keys are held.
type InputSource interface {
	// Poll writes the currently held keys into k. Returns false once the
	// source is closed and will never report input again.
	Poll(k *game.Keys) bool
}

// EndReason tells why Run returned.
type EndReason int

const (
	EndQuit        EndReason = iota // Player pressed quit while playing
	EndGameOver                     // Player dismissed the end screen
	EndInputClosed                  // Input source closed
	EndIdle                         // No key held for longer than the idle timeout
	EndCancelled                    // Context cancelled
	EndShutdown                     // Shutdown notice shown for its full duration
	EndError                        // Renderer failed
)

func (r EndReason) String() string {
	switch r {
	case EndQuit:
		return "quit"
	case EndGameOver:
		return "game over"
	case EndInputClosed:
		return "input closed"
	case EndIdle:
		return "idle"
	case EndCancelled:
		return "cancelled"
	case EndShutdown:
		return "shutdown"
	case EndError:
		return "error"
	default:
		return fmt.Sprintf("EndReason(%d)", int(r))
	}
}

// Result describes a finished session.
type Result struct {
	Reason   EndReason
	Snapshot game.Snapshot // Final state of the game
}

// Options configures Run. The zero value runs at the game's target FPS with
// no idle timeout and no shutdown notice.
type Options struct {
	FPS             int
	IdleTimeout     time.Duration
	Shutdown        <-chan struct{} // Closed when the server starts shutting down
	ShutdownDisplay time.Duration
	Logger          *log.Logger
}

func (o Options) withDefaults(cfg game.Config) Options {
	if o.FPS <= 0 {
		o.FPS = cfg.TargetFPS
	}
	if o.ShutdownDisplay <= 0 {
		o.ShutdownDisplay = config.ShutdownDisplay
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Run advances g once per tick until the session ends. Each tick polls in,
// feeds the held keys to the game, advances it by the wall-clock time since
// the previous tick and renders the result.
//
// Once the game ends, the end screen stays up until the player presses
// Enter (after releasing it) or q. Errors come only from the renderer.
func Run(ctx context.Context, g *game.Game, in InputSource, out Renderer, opts Options) (Result, error) {
	opts = opts.withDefaults(g.Config())
	logger := opts.Logger

	ticker := time.NewTicker(time.Second / time.Duration(opts.FPS))
	defer ticker.Stop()

	var (
		keys       game.Keys
		snap       game.Snapshot
		start      = time.Now()
		prev       float64
		lastInput  = start
		shutdownCh = opts.Shutdown
		shutdownAt time.Time
		armed      bool // Enter was released since the game ended
	)

	finish := func(reason EndReason) (Result, error) {
		g.SnapshotInto(&snap)
		logger.Debug("session ended", "reason", reason, "score", snap.Score, "frames", snap.Frame)
		return Result{Reason: reason, Snapshot: snap}, nil
	}

	for {
		var tick time.Time
		select {
		case <-ctx.Done():
			return finish(EndCancelled)
		case <-shutdownCh:
			shutdownCh = nil
			shutdownAt = time.Now()
			logger.Debug("shutdown notice received")
			continue
		case tick = <-ticker.C:
		}

		if !in.Poll(&keys) {
			return finish(EndInputClosed)
		}
		if keys.Any() {
			lastInput = tick
		} else if opts.IdleTimeout > 0 && tick.Sub(lastInput) > opts.IdleTimeout {
			return finish(EndIdle)
		}

		if !shutdownAt.IsZero() {
			remaining := opts.ShutdownDisplay - tick.Sub(shutdownAt)
			if remaining <= 0 || keys.Held(game.KeyQuit) {
				return finish(EndShutdown)
			}
			g.SnapshotInto(&snap)
			if err := out.Shutdown(&snap, remaining); err != nil {
				return Result{Reason: EndError, Snapshot: snap}, fmt.Errorf("render shutdown: %w", err)
			}
			continue
		}

		if g.State() == game.Ended {
			enter := keys.Held(game.KeyEnter)
			if keys.Held(game.KeyQuit) || (armed && enter) {
				return finish(EndGameOver)
			}
			armed = armed || !enter
			g.SnapshotInto(&snap)
			if err := out.GameOver(&snap); err != nil {
				return Result{Reason: EndError, Snapshot: snap}, fmt.Errorf("render game over: %w", err)
			}
			continue
		}

		if keys.Held(game.KeyQuit) {
			return finish(EndQuit)
		}

		now := tick.Sub(start).Seconds()
		g.SetKeys(keys)
		running := g.Update(now, now-prev)
		prev = now
		g.SnapshotInto(&snap)

		if !running {
			logger.Debug("game over", "score", snap.Score, "hits", snap.Hits, "time", snap.Time)
			if err := out.GameOver(&snap); err != nil {
				return Result{Reason: EndError, Snapshot: snap}, fmt.Errorf("render game over: %w", err)
			}
			continue
		}
		if err := out.Render(&snap); err != nil {
			return Result{Reason: EndError, Snapshot: snap}, fmt.Errorf("render frame: %w", err)
		}
	}
}
