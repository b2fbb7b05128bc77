package client

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Neruelin/astroids/internal/draw"
	"github.com/Neruelin/astroids/internal/game"
)

const controlsHint = "W/S thrust  A/D turn  SPACE fire  Q quit"

type styles struct {
	box    lipgloss.Style
	title  lipgloss.Style
	score  lipgloss.Style
	hint   lipgloss.Style
	warn   lipgloss.Style
	notice lipgloss.Style
}

// newStyles builds styles against the renderer of the output they are written
// to, so an SSH session gets its own color profile.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 4).
			Align(lipgloss.Center),
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		score:  r.NewStyle().Bold(true),
		hint:   r.NewStyle().Faint(true),
		warn:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		notice: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

// drawField draws every body of the snapshot onto the canvas and renders it.
func (c *Client) drawField(s *game.Snapshot) {
	cv := c.canvas
	cv.Clear()
	cv.Outline()

	for _, a := range s.Asteroids {
		radius := float64(a.Tier) * c.cfg.AsteroidRadius
		c.shapes = draw.AsteroidShape(c.shapes[:0], mgl64.Vec2{a.X, a.Y}, a.Rot, radius, a.Slot)
		cv.Polygon(c.shapes, false)
	}
	for _, b := range s.Bullets {
		c.shapes = draw.BulletShape(c.shapes[:0], mgl64.Vec2{b.X, b.Y}, b.Rot, c.cfg.BulletRadius)
		cv.Polygon(c.shapes, true)
	}

	p := s.Player
	c.shapes = draw.ShipShape(c.shapes[:0], mgl64.Vec2{p.X, p.Y}, p.Rot, 2*c.cfg.PlayerRadius)
	cv.Polygon(c.shapes, !s.Ended)

	cv.Render(c.chunkWriter)
}

// drawHUD draws the status line and controls over the field border.
// Fields are fixed-width so shrinking values leave no residue.
func (c *Client) drawHUD(s *game.Snapshot) {
	cw := c.chunkWriter
	cw.WriteAt(3, 1, fmt.Sprintf(" Score: %-7d Asteroids: %-4d Time: %6.1fs ", s.Score, len(s.Asteroids), s.Time))

	if c.canvas.Cols() >= len(controlsHint)+4 {
		cw.WriteAt(3, c.canvas.Rows(), " "+c.styles.hint.Render(controlsHint)+" ")
	}
}

func (c *Client) drawIdleWarning(idle time.Duration) {
	msg := c.styles.warn.Render(fmt.Sprintf("Idle for %ds, press any key to keep playing", int(idle.Seconds())))
	c.drawCentered(msg)
}

func (c *Client) drawGameOver(s *game.Snapshot) {
	lines := []string{
		c.styles.title.Render("GAME OVER"),
		"",
	}
	if c.name != "" {
		lines = append(lines, c.name)
	}
	lines = append(lines,
		c.styles.score.Render(fmt.Sprintf("Score %d", s.Score)),
		fmt.Sprintf("%d hits in %.1fs", s.Hits, s.Time),
		"",
		c.styles.hint.Render("ENTER or Q to leave"),
	)
	c.drawCentered(c.styles.box.Render(lipgloss.JoinVertical(lipgloss.Center, lines...)))
}

func (c *Client) drawShutdown(remaining time.Duration) {
	secs := int(math.Ceil(remaining.Seconds()))
	box := c.styles.box.Render(lipgloss.JoinVertical(lipgloss.Center,
		c.styles.notice.Render("SERVER SHUTTING DOWN"),
		"",
		fmt.Sprintf("Disconnecting in %ds", secs),
		c.styles.hint.Render("Q to leave now"),
	))
	c.drawCentered(box)
}

// drawCentered writes a multi-line block in the middle of the terminal.
func (c *Client) drawCentered(block string) {
	w, h := lipgloss.Width(block), lipgloss.Height(block)
	col := max(1, (c.canvas.Cols()-w)/2+1)
	row := max(1, (c.canvas.Rows()-h)/2+1)
	c.chunkWriter.WriteBlock(col, row, block)
}
