// Package pkg holds the libraries behind codexray, which draws the
// directory tree of one or more code bases as a nested treemap sized by
// line counts.
//
// # Architecture
//
//	cloc --by-file --json report(s) or an exported tree
//	         ↓
//	    [cloc], [project]   read reports, filter languages and folders
//	         ↓
//	    [tree]              build, collapse, compose and annotate
//	         ↓
//	    [render/treemap]    layout, paint, sinks, hit testing
//	         ↓
//	    PNG/JPEG/SVG/JSON output
//
// [pipeline] runs these stages with caching ([cache]) and reports stage
// timings through [observability]. [session] keeps the per-user state of
// the interactive server: loaded projects, filter, palette and the hit
// rectangles of the last render.
//
// # Quick Start
//
//	files, _ := cloc.ReadFile("api.json")
//	root := tree.Build("api", files)
//	tree.Annotate(root, stats.KPICode)
//
//	l := layout.Build(root, layout.Options{Width: 1600, Height: 900})
//	painter := paint.NewPainter(paint.DefaultConfig(), paint.DefaultSeed)
//	png, rects, _ := sink.RenderPNG(l, painter)
//
// Most callers go through [pipeline.Runner] instead, which also handles
// filters, multi-project containers and caching.
package pkg
