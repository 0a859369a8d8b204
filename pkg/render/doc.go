// Package render draws resolved dependency graphs.
//
// The [nodelink] subpackage turns a [dag.DAG] built from a resolution result
// into Graphviz DOT and renders DOT to SVG in process:
//
//	g := deps.Graph(result)
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/home-lang/pantry-sub014/pkg/render/nodelink
// [dag.DAG]: github.com/home-lang/pantry-sub014/pkg/dag.DAG
package render
