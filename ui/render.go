package ui

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"distlab/domain/distribution"
	"distlab/internal/statistics"
)

// renderMarkdown converts trusted registry descriptions to HTML.
// Parsers are single-use, so one is built per call.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

const (
	plotWidth  = 600.0
	plotHeight = 200.0
)

// polyline scales points into the plot box as an SVG points attribute.
// Ranges come from the points themselves, so each plot fills the box.
func polyline(xs, ys []float64) string {
	if len(xs) == 0 || len(xs) != len(ys) {
		return ""
	}
	xMin, xMax := xs[0], xs[len(xs)-1]
	yMax := 0.0
	for _, y := range ys {
		yMax = math.Max(yMax, y)
	}
	if xMax == xMin {
		xMax = xMin + 1
	}
	if yMax == 0 {
		yMax = 1
	}

	var sb strings.Builder
	for i := range xs {
		px := (xs[i] - xMin) / (xMax - xMin) * plotWidth
		py := plotHeight - ys[i]/yMax*plotHeight
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", px, py)
	}
	return sb.String()
}

// seriesPolyline plots a resolved density after its support restriction
func seriesPolyline(points []distribution.Point) string {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Density
	}
	return polyline(xs, ys)
}

// histogramPolyline draws bins as a step outline
func histogramPolyline(bins []statistics.Bin) string {
	xs := make([]float64, 0, 2*len(bins))
	ys := make([]float64, 0, 2*len(bins))
	for _, b := range bins {
		xs = append(xs, b.Lower, b.Upper)
		ys = append(ys, b.Density, b.Density)
	}
	return polyline(xs, ys)
}

// thin keeps every step-th point plus the last one
func thin(points []distribution.Point, max int) []distribution.Point {
	if len(points) <= max || max < 2 {
		return points
	}
	step := (len(points) + max - 1) / max
	out := make([]distribution.Point, 0, max+1)
	for i := 0; i < len(points); i += step {
		out = append(out, points[i])
	}
	if last := points[len(points)-1]; out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}
