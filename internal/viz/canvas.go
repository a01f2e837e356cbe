package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a dot matrix of Width*2 by Height*4 sub-pixels rendered with
// Braille characters.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelWidth and PixelHeight are the canvas size in sub-pixels.
func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, mask rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, rune(pixelMap[y%4][x%2]), true
}

// Set lights the sub-pixel (x, y). Out of range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, mask, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= mask
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, mask, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= mask
		if c.Grid[row][col] < brailleBlank {
			c.Grid[row][col] = brailleBlank
		}
	}
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, mask, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&mask != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a segment with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCross marks a current feature point.
func (c *Canvas) DrawCross(x, y, r int) {
	c.DrawLine(x-r, y, x+r, y)
	c.DrawLine(x, y-r, x, y+r)
}

// DrawSquare outlines a desired feature point.
func (c *Canvas) DrawSquare(x, y, r int) {
	c.DrawLine(x-r, y-r, x+r, y-r)
	c.DrawLine(x+r, y-r, x+r, y+r)
	c.DrawLine(x+r, y+r, x-r, y+r)
	c.DrawLine(x-r, y+r, x-r, y-r)
}

// DrawFrame outlines the whole canvas.
func (c *Canvas) DrawFrame() {
	w, h := c.PixelWidth()-1, c.PixelHeight()-1
	c.DrawLine(0, 0, w, 0)
	c.DrawLine(w, 0, w, h)
	c.DrawLine(w, h, 0, h)
	c.DrawLine(0, h, 0, 0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps a rectangle of the plane onto the canvas, y pointing down
// as in image coordinates.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
}

// FitViewport returns a square viewport holding every point with a
// relative margin, never smaller than minSpan on a side.
func FitViewport(points [][2]float64, margin, minSpan float64) Viewport {
	if len(points) == 0 {
		h := minSpan / 2
		return Viewport{-h, h, -h, h}
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	span := math.Max(maxX-minX, maxY-minY) * (1 + 2*margin)
	span = math.Max(span, minSpan)
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return Viewport{cx - span/2, cx + span/2, cy - span/2, cy + span/2}
}

// Map converts plane coordinates to canvas sub-pixels. The second result
// is false outside the viewport.
func (v Viewport) Map(c *Canvas, x, y float64) (int, int, bool) {
	if v.MaxX == v.MinX || v.MaxY == v.MinY {
		return 0, 0, false
	}
	w, h := float64(c.PixelWidth()-1), float64(c.PixelHeight()-1)
	px := int(math.Round((x - v.MinX) / (v.MaxX - v.MinX) * w))
	py := int(math.Round((y - v.MinY) / (v.MaxY - v.MinY) * h))
	inside := x >= v.MinX && x <= v.MaxX && y >= v.MinY && y <= v.MaxY
	return px, py, inside
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
