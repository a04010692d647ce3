package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

func sampleTree() *tree.Node {
	files := []tree.FileEntry{
		{Name: "main.go", Dir: "cmd/app", Stats: []stats.Record{{Name: "Go", Code: 1200, Files: 1}}},
		{Name: "util.go", Dir: "internal/util", Stats: []stats.Record{{Name: "Go", Code: 80, Files: 1}}},
		{Name: "notes.md", Dir: "docs", Stats: []stats.Record{{Name: "Markdown", Comment: 10, Files: 1}}},
	}
	root := tree.Build("app", files)
	tree.Annotate(root, stats.KPICode)
	return root
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{KPI: stats.KPICode})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`label="app\n1,280 code"`,
		`tooltip="app/internal/util"`,
		"n0 -> n1;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	// docs has no code, so it gets no node.
	if strings.Contains(dot, `"docs`) {
		t.Errorf("zero-value node in DOT:\n%s", dot)
	}
	if strings.Contains(dot, "fillcolor=\"#") {
		t.Error("fill colors without a palette")
	}
}

func TestToDOTOptions(t *testing.T) {
	root := sampleTree()

	dot := ToDOT(root, Options{MaxDepth: 1, LeftToRight: true, Palette: paint.DefaultPalette()})
	if !strings.Contains(dot, "rankdir=LR;") {
		t.Error("LeftToRight ignored")
	}
	if strings.Contains(dot, `tooltip="app/cmd/app"`) {
		t.Error("MaxDepth 1 should stop below app/cmd")
	}
	if got := strings.Count(dot, "fillcolor=\"#"); got != 3 {
		t.Errorf("filled nodes = %d, want 3", got)
	}
	if !strings.Contains(dot, `label="app"`) {
		t.Error("labels should omit values without a KPI")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) || strings.Contains(out, "pt") {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("without a view box = %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz layout is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sampleTree(), Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "util") {
		t.Errorf("unexpected SVG: %.200s", svg)
	}
}
