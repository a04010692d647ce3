package project

import (
	"bytes"
	"strings"

	"github.com/matzehuels/codexray/pkg/cloc"
	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/tree"
)

// Load reads projects from a cloc report or a serialized tree. A cloc
// report yields one project called name. A tree yields one project per
// project root, named after the root's first path segment, so collapsed
// roots keep their original name; name is ignored.
func Load(name string, data []byte) ([]*Project, error) {
	switch cloc.Detect(data) {
	case cloc.KindCloc:
		files, err := cloc.Read(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = DefaultName
		}
		p, err := New(name, files)
		if err != nil {
			return nil, err
		}
		return []*Project{p}, nil
	case cloc.KindTree:
		root, err := tree.ReadJSON(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read tree")
		}
		return FromTree(root)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "input is neither a cloc report nor a tree")
	}
}

// FromTree recovers the projects of a built tree from the files it holds.
func FromTree(root *tree.Node) ([]*Project, error) {
	roots := []*tree.Node{root}
	if root.MultiProject {
		roots = root.Children
	}
	out := make([]*Project, 0, len(roots))
	for _, r := range roots {
		name, _, _ := strings.Cut(r.Path, tree.Separator)
		if name == "" {
			name = r.Name
		}
		p, err := New(name, r.AllFiles())
		if err != nil {
			return nil, err
		}
		p.Prebuilt = true
		out = append(out, p)
	}
	return out, nil
}
