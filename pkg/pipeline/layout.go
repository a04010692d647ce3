package pipeline

import (
	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/tree"
)

// ComputeLayout tiles the annotated tree on the configured canvas. Padding
// follows the canvas height.
func ComputeLayout(root *tree.Node, opts Options) layout.Layout {
	opts.SetDefaults()
	return layout.Build(root, opts.Width, opts.Height)
}
