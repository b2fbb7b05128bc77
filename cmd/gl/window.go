//go:build glfw

package main

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Neruelin/astroids/internal/draw"
	"github.com/Neruelin/astroids/internal/game"
	"github.com/Neruelin/astroids/internal/loop"
)

var (
	_ loop.Renderer    = (*window)(nil)
	_ loop.InputSource = (*window)(nil)
)

// window is both input and output for a GLFW window. Key callbacks run
// inside glfw.PollEvents on the loop goroutine, so keys needs no lock.
type window struct {
	win    *glfw.Window
	cfg    game.Config
	keys   game.Keys
	shapes []mgl64.Vec2
	title  string
}

func newWindow(win *glfw.Window, cfg game.Config) *window {
	w := &window{win: win, cfg: cfg}
	win.SetKeyCallback(w.onKey)
	return w
}

func (w *window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	code, ok := keyCode(key)
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		w.keys.Press(code)
	case glfw.Release:
		w.keys.Release(code)
	}
}

// keyCode maps a GLFW key to the ASCII code the game binds.
func keyCode(key glfw.Key) (byte, bool) {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return byte('a' + (key - glfw.KeyA)), true
	case key == glfw.KeySpace:
		return ' ', true
	case key == glfw.KeyEnter || key == glfw.KeyKPEnter:
		return game.KeyEnter, true
	case key == glfw.KeyEscape:
		return game.KeyEscape, true
	case key == glfw.KeyUp:
		return 'w', true
	case key == glfw.KeyDown:
		return 's', true
	case key == glfw.KeyLeft:
		return 'a', true
	case key == glfw.KeyRight:
		return 'd', true
	}
	return 0, false
}

// Poll implements loop.InputSource. Closing the window closes the input.
func (w *window) Poll(k *game.Keys) bool {
	glfw.PollEvents()
	*k = w.keys
	return !w.win.ShouldClose()
}

func (w *window) Render(s *game.Snapshot) error {
	w.drawField(s, [3]float32{0.85, 0.85, 0.85})
	w.setTitle(fmt.Sprintf("Asteroids  |  Score %d  Asteroids %d  Time %.1fs", s.Score, len(s.Asteroids), s.Time))
	w.win.SwapBuffers()
	return nil
}

func (w *window) GameOver(s *game.Snapshot) error {
	w.drawField(s, [3]float32{0.9, 0.3, 0.3})
	w.setTitle(fmt.Sprintf("GAME OVER  |  Score %d, %d hits in %.1fs  |  ENTER or Q to leave", s.Score, s.Hits, s.Time))
	w.win.SwapBuffers()
	return nil
}

// Shutdown is never called for a local window; it only clears the field.
func (w *window) Shutdown(_ *game.Snapshot, remaining time.Duration) error {
	w.begin()
	w.setTitle(fmt.Sprintf("Closing in %.0fs", remaining.Seconds()))
	w.win.SwapBuffers()
	return nil
}

func (w *window) setTitle(title string) {
	if title != w.title {
		w.title = title
		w.win.SetTitle(title)
	}
}

// begin clears the frame and maps field coordinates onto the framebuffer
// with y pointing down.
func (w *window) begin() {
	fbW, fbH := w.win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, w.cfg.Width, w.cfg.Height, 0, -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()

	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (w *window) drawField(s *game.Snapshot, color [3]float32) {
	w.begin()
	gl.Color3f(color[0], color[1], color[2])

	for _, a := range s.Asteroids {
		radius := float64(a.Tier) * w.cfg.AsteroidRadius
		w.shapes = draw.AsteroidShape(w.shapes[:0], mgl64.Vec2{a.X, a.Y}, a.Rot, radius, a.Slot)
		polygon(w.shapes, false)
	}
	for _, b := range s.Bullets {
		w.shapes = draw.BulletShape(w.shapes[:0], mgl64.Vec2{b.X, b.Y}, b.Rot, w.cfg.BulletRadius)
		polygon(w.shapes, true)
	}

	p := s.Player
	w.shapes = draw.ShipShape(w.shapes[:0], mgl64.Vec2{p.X, p.Y}, p.Rot, 2*w.cfg.PlayerRadius)
	polygon(w.shapes, !s.Ended)
}

// polygon draws a convex polygon in immediate mode.
func polygon(points []mgl64.Vec2, filled bool) {
	mode := uint32(gl.LINE_LOOP)
	if filled {
		mode = gl.POLYGON
	}
	gl.Begin(mode)
	for _, p := range points {
		gl.Vertex2d(p[0], p[1])
	}
	gl.End()
}
