// Package export renders field snapshots and telemetry curves as SVG, for
// keeping an image of a run after the terminal is gone.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/halcyonlab/starling/internal/viz"
)

// CanvasSVG renders a braille canvas as an SVG document, one dot per lit
// pixel, scale screen units per pixel. Dot color follows the current
// theme.
func CanvasSVG(c *viz.Canvas, scale float64) string {
	if c == nil {
		return ""
	}

	pw := c.Width * 2
	ph := c.Height * 4
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#101014"/>
<g fill="%s">
`, width, height, width, height, string(viz.CurrentTheme.Primary)))

	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !c.On(x, y) {
				continue
			}
			cx := (float64(x) + 0.5) * scale
			cy := (float64(y) + 0.5) * scale
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, scale*0.45))
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// CurveSVG renders a value series as an SVG polyline, x running over the
// sample index and y auto-scaled with a tenth of padding. Fewer than two
// samples produce an empty string.
func CurveSVG(values []float64, width, height int) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	hi += span * 0.1
	span = hi - lo

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#101014"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, string(viz.CurrentTheme.Accent)))

	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}

// WriteSVG writes an already rendered SVG document to path.
func WriteSVG(path, doc string) error {
	return os.WriteFile(path, []byte(doc), 0644)
}
