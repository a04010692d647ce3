package tree

import (
	"github.com/matzehuels/codexray/pkg/stats"
)

// Separator joins path segments and fused directory names.
const Separator = "/"

// FileEntry is the statistics of one source file. Dir is relative to the
// project root, "/"-separated, and never contains ".." segments; loaders
// reject such input before it reaches the builder.
type FileEntry struct {
	Name  string         `json:"name"`
	Dir   string         `json:"dir"`
	Stats []stats.Record `json:"stats"`
}

// Path returns the file path relative to its project root.
func (f FileEntry) Path() string {
	if f.Dir == "" || f.Dir == "." {
		return f.Name
	}
	return f.Dir + Separator + f.Name
}

// Node is a directory in the tree. A parent owns its children; there are no
// back references, only the derived Path string.
type Node struct {
	Name     string
	Path     string
	Files    []FileEntry
	Children []*Node

	// Set by Rollup.
	Depth       int
	InvDepth    int
	Value       int64
	LocalStats  []stats.Record
	RollupStats []stats.Record
	Dominant    string

	// MultiProject marks the synthetic container created by Compose.
	MultiProject bool
}

// IsLeaf reports whether n has no child directories.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Child returns the direct child called name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the node with the given path, or nil.
func (n *Node) Find(path string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if found != nil {
			return false
		}
		if x.Path == path {
			found = x
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// FileCount returns the number of files in the subtree rooted at n.
func (n *Node) FileCount() int {
	count := 0
	n.Walk(func(x *Node) bool {
		count += len(x.Files)
		return true
	})
	return count
}

// AllFiles returns every file of the subtree in pre-order.
func (n *Node) AllFiles() []FileEntry {
	var files []FileEntry
	n.Walk(func(x *Node) bool {
		files = append(files, x.Files...)
		return true
	})
	return files
}
