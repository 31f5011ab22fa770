// Package nodelink draws a loaded network as a node-link diagram.
//
// # Overview
//
// The preview runs entirely offline: it converts the node and edge tables
// to Graphviz DOT and renders them in-process, so an edge list can be
// checked before it is pushed to Cytoscape.
//
//	dot := nodelink.ToDOT(net, nodelink.Options{ColorColumn: "cluster"})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.DefaultEngine)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - ColorColumn: node column whose values pick the fill color
//   - Colors: explicit value to color mapping, otherwise Palette is cycled
//   - Detailed: label nodes with every attribute value, not only the id
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
