package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/jorgebotas/gocyto/pkg/render"
	"github.com/jorgebotas/gocyto/pkg/table"
)

// DefaultEngine is the Graphviz layout used for undirected networks.
const DefaultEngine = "neato"

// Engines lists the supported Graphviz layouts.
var Engines = []string{"neato", "fdp", "sfdp", "circo", "dot", "twopi"}

// Options configures node-link diagram rendering.
type Options struct {
	// ColorColumn selects the node column that drives fill colors. Empty
	// means every node is white.
	ColorColumn string

	// Colors maps column values to "#RRGGBB" colors.
	Colors map[string]string

	// Palette is cycled for values missing from Colors, in first-appearance
	// order.
	Palette []string

	// Detailed includes attribute values in node labels.
	Detailed bool
}

// ToDOT converts a network to an undirected Graphviz graph.
func ToDOT(net *table.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("  edge [color=\"#888888\"];\n")
	buf.WriteString("\n")

	colors := nodeColors(net.Nodes, opts)
	for i, id := range net.Nodes.IDs {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(net.Nodes, i, opts.Detailed))}
		if c, ok := colors[i]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range net.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeColors(nodes *table.NodeTable, opts Options) map[int]string {
	if opts.ColorColumn == "" {
		return nil
	}
	col, ok := nodes.Column(opts.ColorColumn)
	if !ok {
		return nil
	}
	assigned := make(map[string]string, len(opts.Colors))
	for k, v := range opts.Colors {
		assigned[k] = v
	}
	next := 0
	out := make(map[int]string)
	for i, v := range col.Values {
		if v == "" {
			continue
		}
		c, ok := assigned[v]
		if !ok {
			if len(opts.Palette) == 0 {
				continue
			}
			c = opts.Palette[next%len(opts.Palette)]
			next++
			assigned[v] = c
		}
		out[i] = c
	}
	return out
}

func fmtLabel(nodes *table.NodeTable, row int, detailed bool) string {
	id := nodes.IDs[row]
	if !detailed {
		return id
	}
	parts := []string{id}
	for _, c := range nodes.Columns {
		if v := c.Values[row]; v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", c.Name, v))
		}
	}
	return strings.Join(parts, "\n")
}

// Render lays out and renders a DOT graph in the given format. DOT returns
// the source unchanged and PDF goes through [render.ToPDF].
func Render(ctx context.Context, dot string, format render.Format, engine string) ([]byte, error) {
	switch format {
	case render.DOT:
		return []byte(dot), nil
	case render.SVG:
		return RenderSVG(ctx, dot, engine)
	case render.PNG:
		return renderGraphviz(ctx, dot, graphviz.PNG, engine)
	case render.PDF:
		svg, err := RenderSVG(ctx, dot, engine)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(svg)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot, engine string) ([]byte, error) {
	svg, err := renderGraphviz(ctx, dot, graphviz.SVG, engine)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format, engine string) ([]byte, error) {
	if engine == "" {
		engine = DefaultEngine
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(engine))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
