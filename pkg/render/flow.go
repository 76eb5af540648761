package render

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cartpile/pkg/ui"
)

// startNode names the node for panels opened with no panel showing.
const startNode = "(start)"

// FlowOptions configures [FlowDOT].
type FlowOptions struct {
	// Current is highlighted, usually the panel on screen.
	Current string
	// Fallback is drawn with a double border.
	Fallback string
	// Counts labels each edge with how often it was taken.
	Counts bool
}

// FlowDOT converts panel navigation edges into a Graphviz digraph.
func FlowDOT(edges []ui.Edge, opts FlowOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph panels {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	var nodes []string
	for _, e := range edges {
		nodes = append(nodes, nodeName(e.From), nodeName(e.To))
	}
	if opts.Current != "" {
		nodes = append(nodes, opts.Current)
	}
	if opts.Fallback != "" {
		nodes = append(nodes, opts.Fallback)
	}
	slices.Sort(nodes)
	nodes = slices.Compact(nodes)

	for _, n := range nodes {
		attrs := fmt.Sprintf("label=%q", n)
		switch {
		case n == startNode:
			attrs += ", shape=circle, style=dashed"
		case n == opts.Current:
			attrs += ", fillcolor=\"#ffd866\""
		}
		if n == opts.Fallback {
			attrs += ", peripheries=2"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n, attrs)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if opts.Counts {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", nodeName(e.From), nodeName(e.To), e.Count)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeName(e.From), nodeName(e.To))
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(panel string) string {
	if panel == "" {
		return startNode
	}
	return panel
}

// RenderFlowSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderFlowSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
