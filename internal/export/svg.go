// Package export renders recorded trajectories to SVG.
package export

import (
	"fmt"
	"io"
	"math"

	"physlab/internal/analysis"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// TrajectorySVG writes the portrait as an SVG polyline. Bounds are
// padded by 10% on each side; a degenerate axis spans one unit.
func TrajectorySVG(w io.Writer, p *analysis.PhasePortrait, width, height int, stroke string) error {
	if p == nil || len(p.Points) < 2 {
		return fmt.Errorf("trajectory needs at least 2 points")
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

	if _, err := fmt.Fprintf(w, svgHeader, width, height, width, height); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke); err != nil {
		return err
	}
	for i, pt := range p.Points {
		x := (pt.X - minX) / rangeX * float64(width)
		y := float64(height) - (pt.Y-minY)/rangeY*float64(height)
		sep := " L"
		if i == 0 {
			sep = ""
		}
		if _, err := fmt.Fprintf(w, "%s%.1f,%.1f", sep, x, y); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\"/>\n</svg>\n")
	return err
}
