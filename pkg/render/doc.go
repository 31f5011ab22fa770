// Package render writes network pictures to disk.
//
// # Overview
//
// Two producers hand bytes to this package:
//
//   - Cytoscape itself, through the view export endpoint (svg, png, pdf)
//   - The offline [nodelink] preview, which draws the loaded tables with
//     Graphviz when no Cytoscape instance is running
//
// # Output Files
//
// [WithExtension] appends ".<format>" to a path unless it already ends with
// it, and [WriteFile] refuses to replace an existing file unless asked to.
//
//	path := render.WithExtension("out/ppi", render.SVG) // out/ppi.svg
//	err := render.WriteFile(path, data, overwrite)
//
// # Format Conversion
//
// [ToPDF] converts an SVG using the external rsvg-convert tool (from
// librsvg). Graphviz renders SVG and PNG in-process.
//
// [nodelink]: github.com/jorgebotas/gocyto/pkg/render/nodelink
package render
