package project

import (
	"slices"
	"strings"

	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

// DefaultExcludedLanguages lists languages that are rarely hand-written
// source code. They are dropped by AutoExclude and by "tree --clean".
var DefaultExcludedLanguages = []string{
	"XML",
	"YAML",
	"Dockerfile",
	"Protocol Buffers",
	"HTML",
	"Bourne Shell",
	"Markdown",
	"CMake",
	"PowerShell",
	"Windows Module Definition",
	"DOS Batch",
	"Pascal",
	"MSBuild script",
}

// AutoExclude returns the names of languages that appear in
// DefaultExcludedLanguages, in the order given.
func AutoExclude(languages []stats.Record) []string {
	var out []string
	for _, l := range languages {
		if slices.Contains(DefaultExcludedLanguages, l.Name) {
			out = append(out, l.Name)
		}
	}
	return out
}

// Filter removes files by language or by folder before the tree is built.
// Folders are node paths, so they start with the project name
// ("api/internal/gen").
type Filter struct {
	ExcludedLanguages []string `json:"excluded_languages" toml:"excluded_languages"`
	ExcludedFolders   []string `json:"excluded_folders" toml:"excluded_folders"`
}

// Clone returns a deep copy of f.
func (f Filter) Clone() Filter {
	return Filter{
		ExcludedLanguages: slices.Clone(f.ExcludedLanguages),
		ExcludedFolders:   slices.Clone(f.ExcludedFolders),
	}
}

// IsZero reports whether f excludes nothing.
func (f Filter) IsZero() bool {
	return len(f.ExcludedLanguages) == 0 && len(f.ExcludedFolders) == 0
}

// LanguageExcluded reports whether the language is excluded.
func (f Filter) LanguageExcluded(name string) bool {
	return slices.Contains(f.ExcludedLanguages, name)
}

// FolderExcluded reports whether dir of the named project is, or lies
// below, an excluded folder. Matching is by whole path segments, so
// excluding "p/lib" keeps "p/library".
func (f Filter) FolderExcluded(projectName, dir string) bool {
	if len(f.ExcludedFolders) == 0 {
		return false
	}
	full := qualify(projectName, dir)
	for _, ex := range f.ExcludedFolders {
		ex = strings.TrimSuffix(ex, tree.Separator)
		if full == ex || strings.HasPrefix(full, ex+tree.Separator) {
			return true
		}
	}
	return false
}

// ExcludeLanguage adds name to the excluded languages. It reports whether
// the filter changed.
func (f *Filter) ExcludeLanguage(name string) bool {
	if f.LanguageExcluded(name) {
		return false
	}
	f.ExcludedLanguages = append(f.ExcludedLanguages, name)
	return true
}

// IncludeLanguage removes name from the excluded languages. It reports
// whether the filter changed.
func (f *Filter) IncludeLanguage(name string) bool {
	n := len(f.ExcludedLanguages)
	f.ExcludedLanguages = slices.DeleteFunc(f.ExcludedLanguages, func(l string) bool { return l == name })
	return len(f.ExcludedLanguages) != n
}

// ExcludeFolder adds a node path to the excluded folders. It reports
// whether the filter changed; a path already covered by an excluded
// ancestor is ignored.
func (f *Filter) ExcludeFolder(path string) bool {
	path = strings.TrimSuffix(path, tree.Separator)
	if path == "" {
		return false
	}
	for _, ex := range f.ExcludedFolders {
		if path == ex || strings.HasPrefix(path, ex+tree.Separator) {
			return false
		}
	}
	f.ExcludedFolders = append(f.ExcludedFolders, path)
	return true
}

// Apply returns the files of p that survive the filter. Records of excluded
// languages are dropped from each file, and files left without records are
// dropped. The project itself is not modified.
func (f Filter) Apply(p *Project) []tree.FileEntry {
	out := make([]tree.FileEntry, 0, len(p.Files))
	for _, file := range p.Files {
		if f.FolderExcluded(p.Name, file.Dir) {
			continue
		}
		if len(f.ExcludedLanguages) == 0 {
			out = append(out, file)
			continue
		}
		kept := make([]stats.Record, 0, len(file.Stats))
		for _, r := range file.Stats {
			if !f.LanguageExcluded(r.Name) {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			continue
		}
		file.Stats = kept
		out = append(out, file)
	}
	return out
}

func qualify(projectName, dir string) string {
	parts := []string{projectName}
	for _, seg := range strings.Split(dir, tree.Separator) {
		if seg != "" && seg != "." {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, tree.Separator)
}
