// Package export renders canvases and run traces as SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Palette is the stroke color of successive series.
var Palette = []string{"#ff4444", "#00ff88", "#ffcc00", "#4488ff", "#ff00ff", "#00ffff", "#ffffff", "#ff8800"}

// brailleDots maps Braille bits to their (column, row) in a 2x4 cell.
var brailleDots = [8][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}, {0, 3}, {1, 3}}

// BrailleToSVG draws every lit dot of a grid of Braille characters as a
// circle, scale pixels apart.
func BrailleToSVG(w io.Writer, grid [][]rune, scale float64) error {
	rows, cols := len(grid), 0
	if rows > 0 {
		cols = len(grid[0])
	}
	width, height := float64(cols)*scale*2, float64(rows)*scale*4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ccff">
`, width, height, width, height)

	r := scale * 0.4
	for row, line := range grid {
		for col, ch := range line {
			if ch < 0x2800 || ch > 0x28ff {
				continue
			}
			bits := int(ch - 0x2800)
			for b, d := range brailleDots {
				if bits&(1<<b) == 0 {
					continue
				}
				cx := (float64(col*2+d[0]) + 0.5) * scale
				cy := (float64(row*4+d[1]) + 0.5) * scale
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
			}
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// Series is one curve of a chart.
type Series struct {
	Name   string
	Values []float64
}

// Chart is a line chart of several series sharing the X axis.
type Chart struct {
	Title  string
	X      []float64
	Series []Series
	Width  int
	Height int
	// LogY plots log10 of the values; non-positive values are skipped.
	LogY bool
}

const margin = 40.0

// WriteSVG renders the chart with a zero line, a legend and one path per
// series. Non-finite values break the path.
func (c *Chart) WriteSVG(w io.Writer) error {
	if len(c.X) < 2 || len(c.Series) == 0 {
		return fmt.Errorf("export: chart needs two samples and one series")
	}
	width, height := float64(c.Width), float64(c.Height)
	if width <= 2*margin || height <= 2*margin {
		width, height = 800, 400
	}

	minX, maxX := c.X[0], c.X[len(c.X)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, v := range s.Values {
			if v, ok := c.value(v); ok {
				minY, maxY = math.Min(minY, v), math.Max(maxY, v)
			}
		}
	}
	if math.IsInf(minY, 0) {
		return fmt.Errorf("export: no finite values to plot")
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		minY, maxY = minY-1, maxY+1
	}
	pad := (maxY - minY) * 0.05
	minY, maxY = minY-pad, maxY+pad

	px := func(x float64) float64 { return margin + (x-minX)/(maxX-minX)*(width-2*margin) }
	py := func(y float64) float64 { return height - margin - (y-minY)/(maxY-minY)*(height-2*margin) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="monospace" font-size="12">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="none" stroke="#444466"/>
<text x="%.0f" y="20" fill="#ffffff">%s</text>
<text x="4" y="%.0f" fill="#888899">%.3g</text>
<text x="4" y="%.0f" fill="#888899">%.3g</text>
`, width, height, width, height,
		margin, margin, width-2*margin, height-2*margin,
		margin, escape(c.Title),
		margin+4, maxY, height-margin, minY)

	if !c.LogY && minY < 0 && maxY > 0 {
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"#444466\" stroke-dasharray=\"4\"/>\n",
			margin, py(0), width-margin, py(0))
	}

	for i, s := range c.Series {
		color := Palette[i%len(Palette)]
		var d strings.Builder
		move := true
		for k, v := range s.Values {
			if k >= len(c.X) {
				break
			}
			y, ok := c.value(v)
			if !ok {
				move = true
				continue
			}
			cmd := "L"
			if move {
				cmd, move = "M", false
			}
			fmt.Fprintf(&d, "%s%.1f,%.1f ", cmd, px(c.X[k]), py(y))
		}
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n", color, strings.TrimSpace(d.String()))
		fmt.Fprintf(&sb, "<text x=\"%.0f\" y=\"%.0f\" fill=\"%s\">%s</text>\n", width-margin+4, margin+14*float64(i+1), color, escape(s.Name))
	}
	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (c *Chart) value(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if c.LogY {
		if v <= 0 {
			return 0, false
		}
		return math.Log10(v), true
	}
	return v, true
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
