package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/codexray/pkg/stats"
)

// FileExt is the conventional extension of a serialized tree.
const FileExt = ".xray.json"

type jsonNode struct {
	Name         string         `json:"name"`
	Path         string         `json:"path"`
	Value        int64          `json:"value"`
	Depth        int            `json:"depth"`
	InvDepth     int            `json:"invDepth"`
	Children     []jsonNode     `json:"children"`
	Files        []FileEntry    `json:"files,omitempty"`
	LangLocal    []stats.Record `json:"lang_local,omitempty"`
	LangRollup   []stats.Record `json:"lang_rollup,omitempty"`
	ValueLang    string         `json:"value_lang,omitempty"`
	MultiProject bool           `json:"is_multi_project,omitempty"`
}

func toJSON(n *Node) jsonNode {
	out := jsonNode{
		Name:         n.Name,
		Path:         n.Path,
		Value:        n.Value,
		Depth:        n.Depth,
		InvDepth:     n.InvDepth,
		Children:     make([]jsonNode, len(n.Children)),
		Files:        n.Files,
		LangLocal:    n.LocalStats,
		LangRollup:   n.RollupStats,
		ValueLang:    n.Dominant,
		MultiProject: n.MultiProject,
	}
	for i, c := range n.Children {
		out.Children[i] = toJSON(c)
	}
	return out
}

func fromJSON(in jsonNode) *Node {
	n := &Node{
		Name:         in.Name,
		Path:         in.Path,
		Files:        in.Files,
		Depth:        in.Depth,
		InvDepth:     in.InvDepth,
		Value:        in.Value,
		LocalStats:   in.LangLocal,
		RollupStats:  in.LangRollup,
		Dominant:     in.ValueLang,
		MultiProject: in.MultiProject,
	}
	for _, c := range in.Children {
		n.Children = append(n.Children, fromJSON(c))
	}
	return n
}

// Marshal serializes the tree to indented JSON.
func Marshal(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the tree as indented JSON to w.
func WriteJSON(w io.Writer, n *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSON(n)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a tree written by WriteJSON. The annotations are read
// back as stored; callers that change the KPI should run Rollup again.
func ReadJSON(r io.Reader) (*Node, error) {
	var in jsonNode
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if in.Name == "" && !in.MultiProject {
		return nil, fmt.Errorf("decode: root node has no name")
	}
	return fromJSON(in), nil
}

// WriteFile writes the tree to path.
func WriteFile(n *Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, n)
}

// ReadFile reads a tree from path.
func ReadFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
