package tree

import (
	"slices"
	"strings"

	"github.com/matzehuels/codexray/pkg/stats"
)

// Build creates the directory tree of one project. Each entry's Dir is
// walked segment by segment from the root, creating directories on first
// encounter; empty and "." segments are ignored so "./src" and "src" land
// in the same place. Sibling order follows insertion order.
//
// An empty file list yields a bare root, which renders as an empty canvas.
func Build(project string, files []FileEntry) *Node {
	root := &Node{Name: project, Path: project}
	byPath := map[string]*Node{project: root}

	for _, f := range files {
		n := root
		for _, seg := range strings.Split(f.Dir, Separator) {
			if seg == "" || seg == "." {
				continue
			}
			path := n.Path + Separator + seg
			child, ok := byPath[path]
			if !ok {
				child = &Node{Name: seg, Path: path}
				n.Children = append(n.Children, child)
				byPath[path] = child
			}
			n = child
		}
		n.Files = append(n.Files, f)
	}
	return root
}

// Compose returns the single layout root for a set of project trees. More
// than one root is wrapped in a synthetic container marked MultiProject;
// exactly one root is returned as is. The container's Path is empty so it
// can never collide with a project path.
//
// The roots are not modified. Zero roots yield an empty container.
func Compose(name string, roots []*Node) *Node {
	if len(roots) == 1 {
		return roots[0]
	}
	return &Node{
		Name:         name,
		Children:     slices.Clone(roots),
		MultiProject: true,
	}
}

// StartDepth returns the depth Rollup should assign to root: -1 for a
// multi-project container so that project roots sit at depth 0.
func StartDepth(root *Node) int {
	if root.MultiProject {
		return -1
	}
	return 0
}

// Rollup annotates the subtree rooted at n for the given KPI. Depth is
// assigned top-down starting at depth; InvDepth, LocalStats, RollupStats,
// Value and Dominant bottom-up. Value is always derived from RollupStats.
//
// Rollup replaces any previous annotation, so calling it twice with the
// same KPI yields identical results.
func Rollup(n *Node, depth int, kpi stats.KPI) {
	n.Depth = depth

	local := make([][]stats.Record, len(n.Files))
	for i, f := range n.Files {
		local[i] = f.Stats
	}
	n.LocalStats = stats.Merge(local...)

	lists := make([][]stats.Record, 0, len(n.Children)+1)
	lists = append(lists, n.LocalStats)
	n.InvDepth = 0
	for _, c := range n.Children {
		Rollup(c, depth+1, kpi)
		lists = append(lists, c.RollupStats)
		n.InvDepth = max(n.InvDepth, c.InvDepth+1)
	}

	n.RollupStats = stats.Merge(lists...)
	n.Value = stats.Total(n.RollupStats, kpi)
	n.Dominant = stats.Dominant(n.RollupStats, kpi)
}

// Annotate runs Rollup from the depth appropriate for root.
func Annotate(root *Node, kpi stats.KPI) {
	Rollup(root, StartDepth(root), kpi)
}
