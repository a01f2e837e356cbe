package analysis

import (
	"fmt"
	"strings"
)

// Portrait is one error component plotted against another.
type Portrait struct {
	XIndex, YIndex int
	Points         [][2]float64
}

// NewPortrait pairs components x and y of every error sample. It fails
// when either index is out of range.
func NewPortrait(errors [][]float64, x, y int) (*Portrait, error) {
	if len(errors) == 0 {
		return nil, fmt.Errorf("analysis: no samples")
	}
	if x < 0 || y < 0 || x >= len(errors[0]) || y >= len(errors[0]) {
		return nil, fmt.Errorf("analysis: components %d,%d out of range for dimension %d", x, y, len(errors[0]))
	}
	p := &Portrait{XIndex: x, YIndex: y, Points: make([][2]float64, 0, len(errors))}
	for _, e := range errors {
		if x < len(e) && y < len(e) {
			p.Points = append(p.Points, [2]float64{e[x], e[y]})
		}
	}
	return p, nil
}

// ASCII renders the portrait with early samples as '.', middle ones as
// 'o' and late ones as '●', and the axes where they are in view. The
// y axis points down, as in the image.
func (p *Portrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0][0], p.Points[0][0]
	minY, maxY := p.Points[0][1], p.Points[0][1]
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt[0]), max(maxX, pt[0])
		minY, maxY = min(minY, pt[1]), max(maxY, pt[1])
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	cell := func(x, y float64) (int, int) {
		return int((x - minX) / rangeX * float64(width-1)), int((y - minY) / rangeY * float64(height-1))
	}

	if c, _ := cell(0, 0); c >= 0 && c < width {
		for row := range grid {
			grid[row][c] = '│'
		}
	}
	if _, r := cell(0, 0); r >= 0 && r < height {
		for col := range grid[r] {
			if grid[r][col] == '│' {
				grid[r][col] = '┼'
			} else {
				grid[r][col] = '─'
			}
		}
	}

	n := len(p.Points)
	for i, pt := range p.Points {
		c, r := cell(pt[0], pt[1])
		if r < 0 || r >= height || c < 0 || c >= width {
			continue
		}
		switch {
		case i < n/3:
			grid[r][c] = '.'
		case i < 2*n/3:
			grid[r][c] = 'o'
		default:
			grid[r][c] = '●'
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
