package tree

import (
	"slices"
	"testing"

	"github.com/matzehuels/codexray/pkg/stats"
)

func goFile(dir, name string, code int64) FileEntry {
	return FileEntry{Name: name, Dir: dir, Stats: []stats.Record{{Name: "Go", Code: code, Files: 1}}}
}

func pyFile(dir, name string, code int64) FileEntry {
	return FileEntry{Name: name, Dir: dir, Stats: []stats.Record{{Name: "Python", Code: code, Files: 1}}}
}

// scenarioA is a/b/x (100 Go), a/b/y (50 Go), a/c/z (200 Python).
func scenarioA() []FileEntry {
	return []FileEntry{
		goFile("a/b", "x", 100),
		goFile("a/b", "y", 50),
		pyFile("a/c", "z", 200),
	}
}

func childNames(n *Node) []string {
	names := make([]string, len(n.Children))
	for i, c := range n.Children {
		names[i] = c.Name
	}
	slices.Sort(names)
	return names
}

func fileNames(n *Node) []string {
	names := make([]string, len(n.Files))
	for i, f := range n.Files {
		names[i] = f.Name
	}
	slices.Sort(names)
	return names
}

func TestBuildScenarioA(t *testing.T) {
	root := Build("root", scenarioA())

	if root.Name != "root" || root.Path != "root" {
		t.Fatalf("root = %q/%q", root.Name, root.Path)
	}
	if got := childNames(root); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("root children = %v, want [a]", got)
	}

	a := root.Child("a")
	if got := childNames(a); !slices.Equal(got, []string{"b", "c"}) {
		t.Fatalf("a children = %v, want [b c]", got)
	}
	if len(a.Files) != 0 {
		t.Errorf("a has %d files, want 0", len(a.Files))
	}

	b := a.Child("b")
	if b.Path != "root/a/b" {
		t.Errorf("b.Path = %q, want root/a/b", b.Path)
	}
	if got := fileNames(b); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("b files = %v, want [x y]", got)
	}
	if got := fileNames(a.Child("c")); !slices.Equal(got, []string{"z"}) {
		t.Errorf("c files = %v, want [z]", got)
	}
}

func TestBuildRootFilesAndDotSegments(t *testing.T) {
	root := Build("p", []FileEntry{
		goFile("", "main.go", 1),
		goFile(".", "doc.go", 1),
		goFile("./cmd", "a.go", 1),
		goFile("cmd/", "b.go", 1),
	})

	if got := fileNames(root); !slices.Equal(got, []string{"doc.go", "main.go"}) {
		t.Errorf("root files = %v", got)
	}
	if got := childNames(root); !slices.Equal(got, []string{"cmd"}) {
		t.Fatalf("root children = %v, want [cmd]", got)
	}
	if got := fileNames(root.Child("cmd")); !slices.Equal(got, []string{"a.go", "b.go"}) {
		t.Errorf("cmd files = %v", got)
	}
}

func TestBuildUniquePaths(t *testing.T) {
	root := Build("p", []FileEntry{
		goFile("x/y", "1", 1),
		goFile("y/x", "2", 1),
		goFile("x/y/x", "3", 1),
		goFile("x", "4", 1),
	})

	seen := map[string]bool{}
	root.Walk(func(n *Node) bool {
		if seen[n.Path] {
			t.Errorf("duplicate path %q", n.Path)
		}
		seen[n.Path] = true
		names := map[string]bool{}
		for _, c := range n.Children {
			if names[c.Name] {
				t.Errorf("duplicate child %q under %q", c.Name, n.Path)
			}
			names[c.Name] = true
		}
		return true
	})
	if root.Count() != 6 {
		t.Errorf("Count() = %d, want 6", root.Count())
	}
	if root.FileCount() != 4 {
		t.Errorf("FileCount() = %d, want 4", root.FileCount())
	}
}

func TestBuildEmpty(t *testing.T) {
	root := Build("empty", nil)
	if !root.IsLeaf() || len(root.Files) != 0 {
		t.Errorf("empty build should produce a bare root")
	}
}

func TestFind(t *testing.T) {
	root := Build("root", scenarioA())
	if n := root.Find("root/a/c"); n == nil || n.Name != "c" {
		t.Errorf("Find(root/a/c) = %v", n)
	}
	if n := root.Find("root/a/d"); n != nil {
		t.Errorf("Find(root/a/d) = %v, want nil", n)
	}
}

func TestFileEntryPath(t *testing.T) {
	tests := []struct {
		f    FileEntry
		want string
	}{
		{FileEntry{Name: "a.go"}, "a.go"},
		{FileEntry{Name: "a.go", Dir: "."}, "a.go"},
		{FileEntry{Name: "a.go", Dir: "pkg/x"}, "pkg/x/a.go"},
	}
	for _, tt := range tests {
		if got := tt.f.Path(); got != tt.want {
			t.Errorf("Path() = %q, want %q", got, tt.want)
		}
	}
}

func TestComposeScenarioC(t *testing.T) {
	p1 := Build("one", []FileEntry{goFile("src", "a.go", 100)})
	p2 := Build("two", []FileEntry{pyFile("lib", "b.py", 300)})

	root := Compose("Project", []*Node{p1, p2})
	if !root.MultiProject {
		t.Fatal("expected a multi-project container")
	}
	if len(root.Children) != 2 || root.Children[0] != p1 || root.Children[1] != p2 {
		t.Fatal("container must hold the two project roots unchanged")
	}

	Annotate(root, stats.KPICode)
	if root.Depth != -1 {
		t.Errorf("container depth = %d, want -1", root.Depth)
	}
	if root.Value != 400 {
		t.Errorf("container value = %d, want 400", root.Value)
	}
	if p1.Depth != 0 || p2.Depth != 0 {
		t.Errorf("project depths = %d, %d, want 0", p1.Depth, p2.Depth)
	}
	if p1.Path != "one" || p2.Path != "two" {
		t.Errorf("project paths changed: %q %q", p1.Path, p2.Path)
	}
}

func TestComposeSingle(t *testing.T) {
	p := Build("only", []FileEntry{goFile("", "a.go", 3)})
	if got := Compose("Project", []*Node{p}); got != p {
		t.Error("Compose with one project must return that root")
	}
	if StartDepth(p) != 0 {
		t.Errorf("StartDepth = %d, want 0", StartDepth(p))
	}
}

func TestComposeNone(t *testing.T) {
	root := Compose("Project", nil)
	if !root.MultiProject || !root.IsLeaf() {
		t.Error("Compose with no projects should return an empty container")
	}
	Annotate(root, stats.KPICode)
	if root.Value != 0 {
		t.Errorf("Value = %d, want 0", root.Value)
	}
}
