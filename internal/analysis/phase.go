// Package analysis derives phase-space views from recorded state
// series: 2D phase portraits and Poincaré sections, rendered as ASCII.
package analysis

import (
	"math"
	"strings"
)

// Point is one sample in a 2D projection of state space.
type Point struct {
	X, Y float64
}

// PhasePortrait is a 2D projection of a recorded trajectory.
type PhasePortrait struct {
	XName, YName string
	Points       []Point
}

// Portrait pairs two equal-length series into a phase portrait. The
// shorter series bounds the point count.
func Portrait(xName, yName string, xs, ys []float64) *PhasePortrait {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	p := &PhasePortrait{
		XName:  xName,
		YName:  yName,
		Points: make([]Point, n),
	}
	for i := 0; i < n; i++ {
		p.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return p
}

// Poincare records one interpolated (x, y) point per positive-going
// crossing of the cross series through threshold.
func Poincare(cross []float64, threshold float64, xs, ys []float64) *PhasePortrait {
	n := len(cross)
	if len(xs) < n {
		n = len(xs)
	}
	if len(ys) < n {
		n = len(ys)
	}

	p := &PhasePortrait{XName: "x", YName: "y"}
	for i := 1; i < n; i++ {
		prev, curr := cross[i-1], cross[i]
		if prev >= threshold || curr < threshold {
			continue
		}
		frac := (threshold - prev) / (curr - prev)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		p.Points = append(p.Points, Point{
			X: xs[i-1] + frac*(xs[i]-xs[i-1]),
			Y: ys[i-1] + frac*(ys[i]-ys[i-1]),
		})
	}
	return p
}

// ASCII renders the portrait on a width-by-height character grid with
// origin axes drawn where they fall inside the data bounds.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
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
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	if col := int(-minX / rangeX * float64(width-1)); col >= 0 && col < width {
		for row := 0; row < height; row++ {
			grid[row][col] = '│'
		}
	}
	if row := height - 1 - int(-minY/rangeY*float64(height-1)); row >= 0 && row < height {
		for col := 0; col < width; col++ {
			if grid[row][col] == '│' {
				grid[row][col] = '┼'
				continue
			}
			grid[row][col] = '─'
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
