// Package client is the terminal front end: it reads keys from a TTY byte
// stream and draws snapshots with half-block graphics. The same client serves
// a local terminal and an SSH session.
package client

import (
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Neruelin/astroids/internal/draw"
	"github.com/Neruelin/astroids/internal/game"
	"github.com/Neruelin/astroids/internal/input"
	"github.com/Neruelin/astroids/internal/loop"
	"github.com/Neruelin/astroids/internal/loop/config"
)

var (
	_ loop.Renderer    = (*Client)(nil)
	_ loop.InputSource = (*Client)(nil)
)

// screenMode is what the client last drew; switching modes clears the terminal.
type screenMode int

const (
	modeNone screenMode = iota
	modePlaying
	modeGameOver
	modeShutdown
)

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Name         string        // Shown on the end screen
	KeyHold      time.Duration // Hold window for terminal keys
	IdleWarn     time.Duration // Show an inactivity warning after this long without input
}

// Client handles rendering and input for a single terminal.
type Client struct {
	chunkWriter  *draw.ChunkWriter // Accumulates one frame for chunked output
	canvas       *draw.Canvas
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	cfg          game.Config
	name         string

	mode      screenMode
	lastInput time.Time
	idleWarn  time.Duration
	shapes    []mgl64.Vec2 // Reusable polygon buffer
	styles    styles
}

// New creates a client reading keys from r and drawing to w. cfg must be the
// configuration of the game the client will display.
func New(r io.Reader, w io.Writer, cfg game.Config, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	hold := opts.KeyHold
	if hold <= 0 {
		hold = config.KeyHold
	}
	idleWarn := opts.IdleWarn
	if idleWarn <= 0 {
		idleWarn = config.InactivityWarnUser
	}

	cols, rows, err := termSizeFunc()
	if err != nil {
		cols, rows = config.MinTermWidth, config.MinTermHeight
	}
	cols = min(cols, config.MaxTermWidth)
	rows = min(rows, config.MaxTermHeight)

	return &Client{
		chunkWriter:  draw.NewChunkWriter(w),
		canvas:       draw.NewCanvas(cols, rows, cfg.Width, cfg.Height),
		inputStream:  input.NewStream(r, hold),
		termSizeFunc: termSizeFunc,
		cfg:          cfg,
		name:         opts.Name,
		lastInput:    time.Now(),
		idleWarn:     idleWarn,
		styles:       newStyles(lipgloss.NewRenderer(w)),
	}
}

// Open prepares the terminal for drawing.
func (c *Client) Open() error {
	draw.EnterAltScreen(c.chunkWriter)
	return c.chunkWriter.Flush()
}

// Close restores the terminal.
func (c *Client) Close() error {
	draw.ExitAltScreen(c.chunkWriter)
	return c.chunkWriter.Flush()
}

// Poll reads pending key presses.
func (c *Client) Poll(k *game.Keys) bool {
	open := c.inputStream.Poll(k)
	if k.Any() {
		c.lastInput = time.Now()
	}
	return open
}

// Render draws a running frame with the HUD.
func (c *Client) Render(s *game.Snapshot) error {
	if ok, _ := c.begin(modePlaying); !ok {
		return c.chunkWriter.Flush()
	}
	c.drawField(s)
	c.drawHUD(s)
	if idle := time.Since(c.lastInput); idle > c.idleWarn {
		c.drawIdleWarning(idle)
	}
	return c.chunkWriter.Flush()
}

// GameOver draws the final field under the end-of-game box.
func (c *Client) GameOver(s *game.Snapshot) error {
	ok, entered := c.begin(modeGameOver)
	if entered {
		// Keys still repeating from play must not count as a dismissal.
		c.inputStream.Reset()
	}
	if !ok {
		return c.chunkWriter.Flush()
	}
	c.drawField(s)
	c.drawGameOver(s)
	return c.chunkWriter.Flush()
}

// Shutdown draws the shutdown countdown.
func (c *Client) Shutdown(_ *game.Snapshot, remaining time.Duration) error {
	if ok, _ := c.begin(modeShutdown); !ok {
		return c.chunkWriter.Flush()
	}
	c.canvas.Clear()
	c.canvas.Render(c.chunkWriter)
	c.drawShutdown(remaining)
	return c.chunkWriter.Flush()
}

// begin handles terminal resizes and mode switches. ok is false when the
// terminal is too small to draw, after a notice was written instead.
// entered reports that mode differs from the previously requested one.
func (c *Client) begin(mode screenMode) (ok, entered bool) {
	entered = mode != c.mode
	c.mode = mode

	cols, rows, err := c.termSizeFunc()
	if err != nil {
		cols, rows = c.canvas.Cols(), c.canvas.Rows()
	}
	cols = min(cols, config.MaxTermWidth)
	rows = min(rows, config.MaxTermHeight)
	resized := cols != c.canvas.Cols() || rows != c.canvas.Rows()
	if resized {
		c.canvas.Resize(cols, rows)
	}
	if resized || entered {
		draw.ClearScreen(c.chunkWriter)
	}

	if cols < config.MinTermWidth || rows < config.MinTermHeight {
		c.chunkWriter.WriteAt(1, 1, "Terminal too small")
		return false, entered
	}
	return true, entered
}
