package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Shapes are given in field coordinates and scaled uniformly to fit the terminal,
// centered on the axis with spare room.
type Canvas struct {
	cols    int    // Terminal columns
	rows    int    // Terminal rows
	subRows int    // rows * 2
	pixels  []bool // Flat slice: [y * cols + x] - true if pixel is set

	fieldW, fieldH float64
	scale          float64 // Field units to pixels, identical on both axes
	offX, offY     float64 // Pixel offset of the field origin

	// Reusable buffers to reduce allocations
	renderBuf strings.Builder
	scaledBuf []mgl64.Vec2
	crossBuf  []float64
	numBuf    [20]byte
}

// NewCanvas creates a canvas for a cols x rows terminal showing a fieldW x fieldH field.
func NewCanvas(cols, rows int, fieldW, fieldH float64) *Canvas {
	c := &Canvas{fieldW: fieldW, fieldH: fieldH}
	c.Resize(cols, rows)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the field size.
func (c *Canvas) Resize(cols, rows int) {
	cols = max(cols, 1)
	rows = max(rows, 1)
	if cols != c.cols || rows != c.rows || c.pixels == nil {
		c.cols = cols
		c.rows = rows
		c.subRows = rows * 2
		c.pixels = make([]bool, c.subRows*cols)
	}

	c.scale = min(float64(c.cols)/c.fieldW, float64(c.subRows)/c.fieldH)
	c.offX = (float64(c.cols) - c.fieldW*c.scale) / 2
	c.offY = (float64(c.subRows) - c.fieldH*c.scale) / 2
}

// Cols returns the terminal column count.
func (c *Canvas) Cols() int {
	return c.cols
}

// Rows returns the terminal row count.
func (c *Canvas) Rows() int {
	return c.rows
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.subRows {
		c.pixels[y*c.cols+x] = true
	}
}

// pixel reports whether the sub-pixel at (x, y) is set.
func (c *Canvas) pixel(x, y int) bool {
	if x < 0 || x >= c.cols || y < 0 || y >= c.subRows {
		return false
	}
	return c.pixels[y*c.cols+x]
}

func (c *Canvas) toPixel(p mgl64.Vec2) (int, int) {
	return int(math.Floor(p.X()*c.scale + c.offX)), int(math.Floor(p.Y()*c.scale + c.offY))
}

// Plot sets the pixel under a field position.
func (c *Canvas) Plot(p mgl64.Vec2) {
	c.setPixel(c.toPixel(p))
}

// Line draws a line between two field positions using Bresenham's algorithm.
func (c *Canvas) Line(a, b mgl64.Vec2) {
	x1, y1 := c.toPixel(a)
	x2, y2 := c.toPixel(b)
	c.pixelLine(x1, y1, x2, y2)
}

func (c *Canvas) pixelLine(x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Polygon draws a closed polygon. If filled is true, the interior is filled
// with a scanline pass before the outline is drawn.
func (c *Canvas) Polygon(points []mgl64.Vec2, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points)
	}
	n := len(points)
	for i := range n {
		c.Line(points[i], points[(i+1)%n])
	}
}

// fillPolygon works in pixel space so the fill lines up with the outline.
func (c *Canvas) fillPolygon(points []mgl64.Vec2) {
	scaled := c.scaledBuf[:0]
	for _, p := range points {
		scaled = append(scaled, mgl64.Vec2{p.X()*c.scale + c.offX, p.Y()*c.scale + c.offY})
	}
	c.scaledBuf = scaled

	minY, maxY := scaled[0].Y(), scaled[0].Y()
	for _, p := range scaled[1:] {
		minY = min(minY, p.Y())
		maxY = max(maxY, p.Y())
	}

	n := len(scaled)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		crossings := c.crossBuf[:0]
		for i := range n {
			p1, p2 := scaled[i], scaled[(i+1)%n]
			if (p1.Y() <= scanY && p2.Y() > scanY) || (p2.Y() <= scanY && p1.Y() > scanY) {
				t := (scanY - p1.Y()) / (p2.Y() - p1.Y())
				crossings = append(crossings, p1.X()+t*(p2.X()-p1.X()))
			}
		}
		c.crossBuf = crossings

		slices.Sort(crossings)
		for i := 0; i+1 < len(crossings); i += 2 {
			for x := int(math.Ceil(crossings[i])); x <= int(math.Floor(crossings[i+1])); x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// Outline draws the border of the play field, one pixel inside its edge.
func (c *Canvas) Outline() {
	x0, y0 := c.toPixel(mgl64.Vec2{0, 0})
	x1, y1 := c.toPixel(mgl64.Vec2{c.fieldW, c.fieldH})
	x1 = min(x1-1, c.cols-1)
	y1 = min(y1-1, c.subRows-1)

	c.pixelLine(x0, y0, x1, y0)
	c.pixelLine(x1, y0, x1, y1)
	c.pixelLine(x1, y1, x0, y1)
	c.pixelLine(x0, y1, x0, y0)
}

// Render writes the whole canvas to w, one cursor move per row. Every cell is
// written so no separate clear is needed between frames.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.rows * (c.cols*3 + 10))

	for row := range c.rows {
		c.renderBuf.WriteString("\033[")
		c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1), 10))
		c.renderBuf.WriteString(";1H")

		top := row * 2 * c.cols
		bottom := top + c.cols
		for col := range c.cols {
			switch t, b := c.pixels[top+col], c.pixels[bottom+col]; {
			case t && b:
				c.renderBuf.WriteRune(BlockFull)
			case t:
				c.renderBuf.WriteRune(BlockUpperHalf)
			case b:
				c.renderBuf.WriteRune(BlockLowerHalf)
			default:
				c.renderBuf.WriteByte(BlockEmpty)
			}
		}
	}

	_, err := io.WriteString(w, c.renderBuf.String())
	return err
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
