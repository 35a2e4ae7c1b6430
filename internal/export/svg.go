// Package export renders model curves as standalone SVG artifacts.
// Only the CLI writes these to disk; the core stays free of I/O.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/snowball/internal/analysis"
	"github.com/san-kum/snowball/internal/sweep"
)

const (
	background = "#0a0a0a"
	curveColor = "#4ea8de"
	gridColor  = "#333333"
	zeroColor  = "#888888"
	markColor  = "#e63946"
	freezeLine = "#74c0fc"
)

// BalanceCurveSVG renders balance vs temperature, with the zero line
// and a marker at every equilibrium.
func BalanceCurveSVG(curve *analysis.Curve, width, height int) string {
	if curve == nil || len(curve.Temperatures) < 2 {
		return ""
	}

	xMin := curve.Temperatures[0]
	xMax := curve.Temperatures[len(curve.Temperatures)-1]
	yMin, yMax := bounds(curve.Balances)
	// Keep the equilibrium line inside the frame.
	yMin = math.Min(yMin, 0)
	yMax = math.Max(yMax, 0)
	yMin, yMax = pad(yMin, yMax)

	var sb strings.Builder
	head(&sb, width, height)

	zeroY := mapY(0, yMin, yMax, height)
	fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="6 4"/>`+"\n",
		zeroY, width, zeroY, zeroColor)

	path(&sb, curve.Temperatures, curve.Balances, xMin, xMax, yMin, yMax, width, height, curveColor)

	for _, eq := range curve.Equilibria() {
		cx := mapX(eq.Temperature, xMin, xMax, width)
		fill := markColor
		if !eq.Stable {
			fill = "none"
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s" stroke="%s"/>`+"\n",
			cx, zeroY, fill, markColor)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="11" text-anchor="middle">%.1f K</text>`+"\n",
			cx, zeroY-8, markColor, eq.Temperature)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SweepSVG renders equilibrium temperature vs solar multiplier with
// the freezing point drawn as a horizontal line. Missing points leave
// gaps in the path.
func SweepSVG(points []sweep.Point, tFreeze float64, width, height int) string {
	if len(points) < 2 {
		return ""
	}

	xMin := points[0].Multiplier
	xMax := points[len(points)-1].Multiplier

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, pt := range points {
		if !pt.Valid {
			continue
		}
		yMin = math.Min(yMin, pt.Temperature)
		yMax = math.Max(yMax, pt.Temperature)
	}
	if math.IsInf(yMin, 1) {
		return ""
	}
	yMin = math.Min(yMin, tFreeze)
	yMax = math.Max(yMax, tFreeze)
	yMin, yMax = pad(yMin, yMax)

	var sb strings.Builder
	head(&sb, width, height)

	freezeY := mapY(tFreeze, yMin, yMax, height)
	fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="6 4"/>`+"\n",
		freezeY, width, freezeY, freezeLine)
	fmt.Fprintf(&sb, `<text x="6" y="%.1f" fill="%s" font-size="11">freezing point</text>`+"\n",
		freezeY-6, freezeLine)

	segment := make([]int, 0, len(points))
	flush := func() {
		if len(segment) < 2 {
			segment = segment[:0]
			return
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, curveColor)
		for i, idx := range segment {
			pt := points[idx]
			x := mapX(pt.Multiplier, xMin, xMax, width)
			y := mapY(pt.Temperature, yMin, yMax, height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
		segment = segment[:0]
	}

	for i, pt := range points {
		if !pt.Valid {
			flush()
			continue
		}
		segment = append(segment, i)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`+"\n",
			mapX(pt.Multiplier, xMin, xMax, width),
			mapY(pt.Temperature, yMin, yMax, height),
			markColor)
	}
	flush()

	sb.WriteString("</svg>")
	return sb.String()
}

func head(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func path(sb *strings.Builder, xs, ys []float64, xMin, xMax, yMin, yMax float64, width, height int, color string) {
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
	for i := range xs {
		x := mapX(xs[i], xMin, xMax, width)
		y := mapY(ys[i], yMin, yMax, height)
		if i == 0 {
			fmt.Fprintf(sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

func bounds(vals []float64) (lo, hi float64) {
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}

func mapX(v, lo, hi float64, width int) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo) * float64(width)
}

func mapY(v, lo, hi float64, height int) float64 {
	if hi == lo {
		return 0
	}
	return float64(height) - (v-lo)/(hi-lo)*float64(height)
}
