// Package render turns a cart's pile into pictures and data files.
//
// # Overview
//
// All pile renderers take a [Layout], a read-only view of one cart:
//
//	l := render.NewLayout(c, meter)
//	svg := render.RenderSVG(l, render.WithLabels(), render.WithMeter())
//	data, err := render.RenderJSON(l)
//	xlsx, err := render.RenderXLSX(l)
//	html, err := render.RenderChart(l)
//
// SVG draws each item as a rotated box at its placed center, with the region
// outline behind it. JSON and XLSX list placements in drop order. The chart
// is a self-contained ECharts HTML page with one scatter series per tag.
//
// # Panel Flow
//
// [FlowDOT] converts the navigation edges recorded by ui.Panels into a
// Graphviz DOT digraph, and [RenderFlowSVG] lays it out with Graphviz:
//
//	dot := render.FlowDOT(panels.Edges(), render.FlowOptions{Current: "settings"})
//	svg, err := render.RenderFlowSVG(ctx, dot)
package render
