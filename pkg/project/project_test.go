package project

import (
	"slices"
	"testing"

	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

func entry(dir, name, lang string, code int64) tree.FileEntry {
	return tree.FileEntry{Name: name, Dir: dir, Stats: []stats.Record{{Name: lang, Code: code, Files: 1}}}
}

func sampleProject(t *testing.T) *Project {
	t.Helper()
	p, err := New("api", []tree.FileEntry{
		entry("", "README.md", "Markdown", 40),
		entry("cmd", "main.go", "Go", 100),
		entry("lib", "a.go", "Go", 50),
		entry("library", "b.go", "Go", 25),
		entry("lib/gen", "c.py", "Python", 10),
		entry("deploy", "Dockerfile", "Dockerfile", 8),
		{Name: "mixed.vue", Dir: "web", Stats: []stats.Record{
			{Name: "HTML", Code: 5, Files: 1},
			{Name: "JavaScript", Code: 7, Files: 1},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNew(t *testing.T) {
	if _, err := New("a/b", nil); !errors.Is(err, errors.ErrCodeInvalidProject) {
		t.Errorf("New(a/b) error = %v", err)
	}
	if _, err := New("", nil); err == nil {
		t.Error("New with empty name should fail")
	}
}

func TestLanguages(t *testing.T) {
	p := sampleProject(t)
	langs := p.Languages()

	if got := stats.Names(langs); got[0] != "Go" || got[1] != "Markdown" {
		t.Errorf("order = %v, want Go, Markdown first", got)
	}
	goStats, _ := stats.Find(langs, "Go")
	if goStats.Code != 175 || goStats.Files != 3 {
		t.Errorf("Go = %+v", goStats)
	}
	if total := p.Total(); total.Code != 245 {
		t.Errorf("Total().Code = %d, want 245", total.Code)
	}
}

func TestSet(t *testing.T) {
	var s Set
	a, _ := New("api", []tree.FileEntry{entry("", "a.go", "Go", 10)})
	b, _ := New("api", []tree.FileEntry{entry("", "b.py", "Python", 30)})
	c, _ := New("web", []tree.FileEntry{entry("", "c.go", "Go", 5)})

	if got := s.Add(a); got != "api" {
		t.Errorf("Add = %q, want api", got)
	}
	if got := s.Add(b); got != "api-2" {
		t.Errorf("Add duplicate = %q, want api-2", got)
	}
	s.Add(c)

	if !slices.Equal(s.Names(), []string{"api", "api-2", "web"}) {
		t.Errorf("Names() = %v", s.Names())
	}

	langs := s.Languages()
	if got := stats.Names(langs); !slices.Equal(got, []string{"Python", "Go"}) {
		t.Errorf("Languages() = %v", got)
	}
	if g, _ := stats.Find(langs, "Go"); g.Code != 15 {
		t.Errorf("Go code = %d, want 15", g.Code)
	}

	if !s.Remove("api-2") || s.Remove("api-2") {
		t.Error("Remove should succeed exactly once")
	}
	if s.Len() != 2 || s.Get("api-2") != nil {
		t.Errorf("after remove: %v", s.Names())
	}
}

func TestFilterApply(t *testing.T) {
	p := sampleProject(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name: "no filter",
			want: []string{"README.md", "main.go", "a.go", "b.go", "c.py", "Dockerfile", "mixed.vue"},
		},
		{
			name:   "exclude folder",
			filter: Filter{ExcludedFolders: []string{"api/lib"}},
			want:   []string{"README.md", "main.go", "b.go", "Dockerfile", "mixed.vue"},
		},
		{
			name:   "exclude folder trailing slash",
			filter: Filter{ExcludedFolders: []string{"api/lib/"}},
			want:   []string{"README.md", "main.go", "b.go", "Dockerfile", "mixed.vue"},
		},
		{
			name:   "exclude whole project",
			filter: Filter{ExcludedFolders: []string{"api"}},
			want:   []string{},
		},
		{
			name:   "other project folder",
			filter: Filter{ExcludedFolders: []string{"web/lib"}},
			want:   []string{"README.md", "main.go", "a.go", "b.go", "c.py", "Dockerfile", "mixed.vue"},
		},
		{
			name:   "exclude languages",
			filter: Filter{ExcludedLanguages: []string{"Go", "HTML"}},
			want:   []string{"README.md", "c.py", "Dockerfile", "mixed.vue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := tt.filter.Apply(p)
			got := make([]string, len(files))
			for i, f := range files {
				got[i] = f.Name
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterApplyTrimsRecords(t *testing.T) {
	p := sampleProject(t)
	files := Filter{ExcludedLanguages: []string{"HTML"}}.Apply(p)

	for _, f := range files {
		if f.Name != "mixed.vue" {
			continue
		}
		if len(f.Stats) != 1 || f.Stats[0].Name != "JavaScript" {
			t.Errorf("mixed.vue stats = %+v", f.Stats)
		}
	}
	// The project keeps its unfiltered records.
	if len(p.Files[6].Stats) != 2 {
		t.Error("Apply modified the project")
	}
}

func TestFilterEditing(t *testing.T) {
	var f Filter
	if !f.ExcludeFolder("api/lib") {
		t.Error("first exclusion should change the filter")
	}
	if f.ExcludeFolder("api/lib/gen") {
		t.Error("folder below an excluded one should be ignored")
	}
	if f.ExcludeFolder("") {
		t.Error("empty path should be ignored")
	}
	if !f.ExcludeFolder("api/library") {
		t.Error("sibling with common prefix is a different folder")
	}

	if !f.ExcludeLanguage("Go") || f.ExcludeLanguage("Go") {
		t.Error("ExcludeLanguage should change the filter once")
	}
	if !f.IncludeLanguage("Go") || f.IncludeLanguage("Go") {
		t.Error("IncludeLanguage should change the filter once")
	}

	c := f.Clone()
	c.ExcludedFolders[0] = "changed"
	if f.ExcludedFolders[0] != "api/lib" {
		t.Error("Clone shares storage")
	}
	if f.IsZero() || !(Filter{}).IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestAutoExclude(t *testing.T) {
	p := sampleProject(t)
	got := AutoExclude(p.Languages())
	slices.Sort(got)
	if !slices.Equal(got, []string{"Dockerfile", "HTML", "Markdown"}) {
		t.Errorf("AutoExclude() = %v", got)
	}
}

func TestSummarize(t *testing.T) {
	langs := []stats.Record{
		{Name: "Go", Code: 300, Files: 3},
		{Name: "Markdown", Code: 100, Files: 1},
	}

	s := Summarize(langs, Filter{ExcludedLanguages: []string{"Markdown"}})
	if s.ActiveCode != 300 || s.InactiveCode != 100 || s.ActiveFiles != 3 || s.InactiveFiles != 1 {
		t.Errorf("Summarize() = %+v", s)
	}
	if s.CodeRatio() != 75 {
		t.Errorf("CodeRatio() = %v, want 75", s.CodeRatio())
	}
	if s.FilesRatio() != 75 {
		t.Errorf("FilesRatio() = %v, want 75", s.FilesRatio())
	}

	all := Summarize(langs, Filter{ExcludedLanguages: []string{"Go", "Markdown"}})
	if !all.NothingLeft() || all.CodeRatio() != 0 {
		t.Errorf("all excluded: %+v", all)
	}
}
