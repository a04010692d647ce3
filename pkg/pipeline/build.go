package pipeline

import (
	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/tree"
)

// BuildTree runs the build stage: every project is filtered and turned into
// a directory tree, collapsed when opts.Collapse is set, and the trees are
// composed under one root and rolled up for opts.KPI.
//
// Projects whose files are all filtered out keep an empty tree with a zero
// value, so they get no box. The projects themselves are not modified.
func BuildTree(projects []*project.Project, filter project.Filter, opts Options) *tree.Node {
	opts.SetDefaults()

	roots := make([]*tree.Node, 0, len(projects))
	for _, p := range projects {
		root := tree.Build(p.Name, filter.Apply(p))
		if opts.Collapse {
			fused := tree.Collapse(root)
			if len(fused) > 0 {
				opts.Logger.Debug("collapsed directories", "project", p.Name, "fused", fused)
			}
		}
		roots = append(roots, root)
	}

	root := tree.Compose(opts.ContainerName, roots)
	tree.Annotate(root, opts.KPI)
	return root
}

// buildInput is the part of the build input that determines the tree.
type buildInput struct {
	Name  string           `json:"name"`
	Files []tree.FileEntry `json:"files"`
}

func buildInputs(projects []*project.Project) []buildInput {
	in := make([]buildInput, len(projects))
	for i, p := range projects {
		in[i] = buildInput{Name: p.Name, Files: p.Files}
	}
	return in
}
