package tree

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/codexray/pkg/stats"
)

func javaProject() *Node {
	return Build("p", []FileEntry{
		{Name: "App.java", Dir: "src/main/java/com/acme", Stats: []stats.Record{{Name: "Java", Code: 40, Files: 1}}},
		{Name: "Util.java", Dir: "src/main/java/com/acme/util", Stats: []stats.Record{{Name: "Java", Code: 10, Files: 1}}},
		{Name: "AppTest.java", Dir: "src/test/java/com/acme", Stats: []stats.Record{{Name: "Java", Code: 20, Files: 1}}},
	})
}

func TestCollapse(t *testing.T) {
	root := javaProject()
	fused := Collapse(root)

	if root.Name != "p/src" {
		t.Errorf("root.Name = %q, want p/src", root.Name)
	}
	if root.Path != "p/src" {
		t.Errorf("root.Path = %q, want p/src", root.Path)
	}
	if got := childNames(root); !slices.Equal(got, []string{"main/java/com/acme", "test/java/com/acme"}) {
		t.Fatalf("children = %v", got)
	}

	main := root.Children[0]
	if main.Path != "p/src/main/java/com/acme" {
		t.Errorf("main.Path = %q", main.Path)
	}
	if got := fileNames(main); !slices.Equal(got, []string{"App.java"}) {
		t.Errorf("main files = %v", got)
	}
	// util holds a file, so it is not fused into anything.
	if got := childNames(main); !slices.Equal(got, []string{"util"}) {
		t.Errorf("main children = %v", got)
	}

	if len(fused) != 3 {
		t.Errorf("fused = %v, want 3 entries", fused)
	}
}

func TestCollapseNameRoundTrip(t *testing.T) {
	root := javaProject()
	Collapse(root)

	main := root.Children[0]
	segs := strings.Split(root.Name+Separator+main.Name, Separator)
	if got := strings.Join(segs, Separator); got != main.Path {
		t.Errorf("joined names %q do not match path %q", got, main.Path)
	}
}

func TestCollapseIdempotent(t *testing.T) {
	once := javaProject()
	Collapse(once)

	twice := javaProject()
	Collapse(twice)
	if fused := Collapse(twice); len(fused) != 0 {
		t.Errorf("second collapse fused %v", fused)
	}

	if !reflect.DeepEqual(once, twice) {
		t.Error("collapse is not idempotent")
	}
}

func TestCollapsePreservesValue(t *testing.T) {
	plain := javaProject()
	Annotate(plain, stats.KPICode)

	collapsed := javaProject()
	Collapse(collapsed)
	Annotate(collapsed, stats.KPICode)

	if plain.Value != collapsed.Value {
		t.Errorf("value changed: %d -> %d", plain.Value, collapsed.Value)
	}
	if plain.FileCount() != collapsed.FileCount() {
		t.Errorf("files changed: %d -> %d", plain.FileCount(), collapsed.FileCount())
	}
}

func TestCollapseKeepsBranching(t *testing.T) {
	root := Build("root", scenarioA())
	Collapse(root)

	// root -> a is a chain, but a has two children and stays.
	if root.Name != "root/a" {
		t.Errorf("root.Name = %q, want root/a", root.Name)
	}
	if got := childNames(root); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("children = %v, want [b c]", got)
	}
}

func TestCollapseSkipsContainer(t *testing.T) {
	p := Build("p", []FileEntry{goFile("x", "a.go", 1)})
	c := &Node{Name: "Project", Children: []*Node{p}, MultiProject: true}

	Collapse(c)
	if c.Name != "Project" || len(c.Children) != 1 {
		t.Errorf("container was fused: %q", c.Name)
	}
	if p.Name != "p/x" {
		t.Errorf("project root = %q, want p/x", p.Name)
	}
}
