// Package nodelink renders dependency graphs as node-link diagrams.
//
// # Usage
//
// Convert a DAG to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include the origin registry under the
//     name@version line
//
// # Styling
//
// Node metadata set by the resolver drives the drawing: optional packages
// are dashed, dev packages are grey and link packages (workspace, git, local
// paths) use a folder shape. Edges point from a package to its dependency,
// with the graph laid out top to bottom so dependents sit above what they
// need.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
