package render

import (
	"bytes"
	"fmt"
	"html"
)

const svgMargin = 20.0

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels bool
	meter  bool
}

// WithLabels writes each item's name on its box.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithMeter draws an HP bar above the pile when the layout has a meter.
func WithMeter() SVGOption { return func(r *svgRenderer) { r.meter = true } }

// RenderSVG draws the pile. World y grows upward from the region's bottom
// edge; the image is flipped so the pile sits on the bottom of the picture.
func RenderSVG(l Layout, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	showMeter := r.meter && l.MaxHP > 0

	minX, minY, maxX, maxY := l.bounds()
	top := svgMargin
	if showMeter {
		top += 24
	}
	width := maxX - minX + 2*svgMargin
	height := maxY - minY + top + svgMargin

	toX := func(x float64) float64 { return x - minX + svgMargin }
	toY := func(y float64) float64 { return maxY - y + top }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	// region floor and walls
	floor := toY(l.Region.Bottom)
	fmt.Fprintf(&buf, `  <path class="region" d="M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f" fill="none" stroke="#333" stroke-width="2"/>`+"\n",
		toX(l.Region.Left), top, toX(l.Region.Left), floor, toX(l.Region.Right), floor, toX(l.Region.Right), top)

	h := l.itemHeight()
	for _, e := range l.Entries {
		p := e.Placement
		cx, cy := toX(p.X), toY(p.Y)
		// Positive rotation is counterclockwise in world space, which is
		// negative once y is flipped.
		rot := 0.0
		if p.Rotation != 0 {
			rot = -p.Rotation
		}
		fmt.Fprintf(&buf, `  <g class="item" id="item-%s" transform="rotate(%.2f %.2f %.2f)">`+"\n",
			html.EscapeString(p.ID), rot, cx, cy)
		fmt.Fprintf(&buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="%s" stroke="#222" stroke-width="1"/>`+"\n",
			cx-p.Width/2, cy-h/2, p.Width, h, html.EscapeString(itemColor(e.Item)))
		if r.labels {
			fmt.Fprintf(&buf, `    <text x="%.2f" y="%.2f" font-size="10" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
				cx, cy, html.EscapeString(e.Item.Name))
		}
		buf.WriteString("  </g>\n")
	}

	if showMeter {
		renderMeter(&buf, l, svgMargin, width-2*svgMargin)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderMeter(buf *bytes.Buffer, l Layout, x, width float64) {
	frac := min(max(float64(l.HP)/float64(l.MaxHP), 0), 1)
	color := "#7bc96f"
	if frac < 0.3 {
		color = "#e5534b"
	}
	fmt.Fprintf(buf, `  <g class="meter">`+"\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="12" fill="#eee" stroke="#333"/>`+"\n", x, svgMargin/2, width)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="12" fill="%s"/>`+"\n", x, svgMargin/2, width*frac, color)
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="10" text-anchor="middle" dominant-baseline="central">%d / %d</text>`+"\n",
		x+width/2, svgMargin/2+6, l.HP, l.MaxHP)
	buf.WriteString("  </g>\n")
}
