// Package nodelink draws a directory tree as a node-link diagram, the
// classic alternative to the treemap when the hierarchy matters more than
// the sizes.
//
// [ToDOT] writes Graphviz DOT source; every directory with a non-zero value
// becomes a rounded box labeled with its name and value, filled with the
// same palette colors the treemap uses. [RenderSVG] lays the graph out
// in-process:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{MaxDepth: 3, KPI: stats.KPICode})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// This package uses [github.com/goccy/go-graphviz] for SVG rendering. DOT
// output needs no external tools.
package nodelink
