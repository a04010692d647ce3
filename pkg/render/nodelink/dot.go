package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-graphviz"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

// Options configures node-link diagram generation.
type Options struct {
	// MaxDepth limits how many levels below the root are drawn. Zero or
	// less draws the whole tree.
	MaxDepth int

	// KPI names the value in labels. Empty omits the value.
	KPI stats.KPI

	// Palette fills the boxes. Nil leaves them white.
	Palette *paint.Palette

	// LeftToRight lays the tree out horizontally, which suits deep trees.
	LeftToRight bool
}

// ToDOT converts an annotated tree to Graphviz DOT. Nodes without value are
// left out along with their subtrees.
func ToDOT(root *tree.Node, opts Options) string {
	rankdir := "TB"
	if opts.LeftToRight {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	levels := float64(max(1, root.InvDepth+root.Depth))
	var (
		count int
		edges [][2]string
	)

	var visit func(n *tree.Node, parent string)
	visit = func(n *tree.Node, parent string) {
		if n.Value <= 0 {
			return
		}
		rel := n.Depth - root.Depth
		if opts.MaxDepth > 0 && rel > opts.MaxDepth {
			return
		}
		id := "n" + strconv.Itoa(count)
		count++
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(attrs(n, opts, levels), ", "))
		if parent != "" {
			edges = append(edges, [2]string{parent, id})
		}
		for _, c := range n.Children {
			visit(c, id)
		}
	}
	visit(root, "")

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", e[0], e[1])
	}
	buf.WriteString("}\n")
	return buf.String()
}

func attrs(n *tree.Node, opts Options, levels float64) []string {
	label := n.Name
	if label == "" {
		label = "/"
	}
	if opts.KPI != "" {
		label += "\n" + humanize.Comma(n.Value) + " " + opts.KPI.String()
	}
	out := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("tooltip=%q", n.Path)}

	if opts.Palette != nil {
		c, _ := colorful.MakeColor(opts.Palette.Color(n.IsLeaf(), float64(n.Depth)/levels, n.Name))
		out = append(out, fmt.Sprintf("fillcolor=%q", c.Hex()))
		// Dark fills get white text.
		if l, _, _ := c.Lab(); l < 0.5 {
			out = append(out, "fontcolor=white")
		}
	}
	if n.IsLeaf() {
		out = append(out, "penwidth=0.5")
	}
	return out
}

// RenderSVG lays out a DOT graph with Graphviz and returns it as SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the point-based size Graphviz writes with a
// pixel size that matches the view box, so browsers scale the image.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
