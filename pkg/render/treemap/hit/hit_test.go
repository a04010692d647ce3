package hit

import (
	"testing"

	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

func entry(dir, name string, code int64) tree.FileEntry {
	return tree.FileEntry{Name: name, Dir: dir, Stats: []stats.Record{{Name: "Go", Code: code, Files: 1}}}
}

func paintTree(root *tree.Node, w, h float64) []paint.HitRect {
	tree.Annotate(root, stats.KPICode)
	return paint.New(paint.DefaultConfig(), nil).Paint(paint.Discard, layout.Build(root, w, h))
}

func TestFindCentroidRoundTrip(t *testing.T) {
	root := tree.Build("app", []tree.FileEntry{
		entry("cmd/app", "main.go", 120),
		entry("internal/util", "str.go", 200),
		entry("internal/db", "db.go", 150),
		entry("docs", "a.md", 90),
	})
	rects := paintTree(root, 1600, 900)

	for _, r := range rects {
		if !r.Node.IsLeaf() {
			continue
		}
		x := float64(r.Left+r.Right) / 2
		y := float64(r.Top+r.Bottom) / 2
		if got := Find(rects, x, y); got != r.Node {
			t.Errorf("centroid of %s hit %v", r.Node.Path, got)
		}
	}
}

func TestFindInnerStrip(t *testing.T) {
	root := tree.Build("app", []tree.FileEntry{
		entry("internal/util", "str.go", 200),
		entry("internal/db", "db.go", 150),
		entry("cmd", "main.go", 50),
	})
	rects := paintTree(root, 1600, 900)

	// The label strip of an inner node belongs to that node.
	for _, r := range rects {
		if r.Node.Name != "internal" {
			continue
		}
		if got := Find(rects, float64(r.Left+r.Right)/2, float64(r.Top)+1); got != r.Node {
			t.Errorf("label strip hit %v, want internal", got)
		}
	}
}

func TestFindMisses(t *testing.T) {
	rects := paintTree(tree.Build("app", []tree.FileEntry{entry("", "main.go", 10)}), 400, 300)

	if got := Find(rects, -5, 10); got != nil {
		t.Errorf("outside canvas hit %s", got.Path)
	}
	if got := Find(nil, 10, 10); got != nil {
		t.Error("empty rects should hit nothing")
	}
}

func TestFindSkipsContainer(t *testing.T) {
	a := tree.Build("api", []tree.FileEntry{entry("", "main.go", 10)})
	b := tree.Build("web", []tree.FileEntry{entry("", "index.go", 30)})
	root := tree.Compose("Projects", []*tree.Node{a, b})
	tree.Annotate(root, stats.KPICode)

	cfg := paint.DefaultConfig()
	cfg.HideBelow = -1
	rects := paint.New(cfg, nil).Paint(paint.Discard, layout.Build(root, 800, 400))

	// The container's label strip is outside both projects.
	if got := Find(rects, 400, 1); got != nil {
		t.Errorf("container strip hit %s", got.Path)
	}
	if got := Find(rects, 400, 200); got == nil || got.Depth != 0 {
		t.Errorf("center should hit a project, got %v", got)
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		x, y, dw, dh, cw, ch float64
		wx, wy               float64
	}{
		{100, 50, 1000, 500, 2000, 1000, 200, 100},
		{10, 10, 0, 0, 2000, 1000, 10, 10},
		{300, 300, 600, 600, 300, 300, 150, 150},
	}
	for _, tt := range tests {
		x, y := Scale(tt.x, tt.y, tt.dw, tt.dh, tt.cw, tt.ch)
		if x != tt.wx || y != tt.wy {
			t.Errorf("Scale(%v,%v) = %v,%v, want %v,%v", tt.x, tt.y, x, y, tt.wx, tt.wy)
		}
	}
}
