// Package project groups file statistics into named projects and applies
// the user's language and folder exclusions to them before a tree is built.
package project

import (
	"fmt"
	"slices"

	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

// DefaultName is used for projects loaded without an explicit name.
const DefaultName = "Project"

// Project is one codebase: a name and the unfiltered statistics of its files.
type Project struct {
	Name  string
	Files []tree.FileEntry

	// Prebuilt marks a project recovered from a tree file. Such trees were
	// collapsed when written, so rebuilding them collapses by default.
	Prebuilt bool

	languages []stats.Record
}

// New validates name and returns a project holding files.
func New(name string, files []tree.FileEntry) (*Project, error) {
	if err := errors.ValidateProjectName(name); err != nil {
		return nil, err
	}
	return &Project{Name: name, Files: files}, nil
}

// Languages returns the per-language totals of the unfiltered project,
// largest code count first. The result is computed once and must not be
// modified.
func (p *Project) Languages() []stats.Record {
	if p.languages == nil {
		lists := make([][]stats.Record, len(p.Files))
		for i, f := range p.Files {
			lists[i] = f.Stats
		}
		p.languages = stats.Merge(lists...)
		stats.SortByKPI(p.languages, stats.KPICode)
	}
	return p.languages
}

// Total returns the sum over all languages.
func (p *Project) Total() stats.Record {
	return stats.Sum(p.Languages())
}

// Set is an ordered collection of projects with unique names.
type Set struct {
	projects []*Project
}

// Add appends p. If the name is taken, a numeric suffix is appended until
// it is unique; the final name is returned.
func (s *Set) Add(p *Project) string {
	base, name := p.Name, p.Name
	for i := 2; s.Get(name) != nil; i++ {
		name = fmt.Sprintf("%s-%d", base, i)
	}
	p.Name = name
	s.projects = append(s.projects, p)
	return name
}

// Remove deletes the named project and reports whether it existed.
func (s *Set) Remove(name string) bool {
	i := slices.IndexFunc(s.projects, func(p *Project) bool { return p.Name == name })
	if i < 0 {
		return false
	}
	s.projects = slices.Delete(s.projects, i, i+1)
	return true
}

// Get returns the named project, or nil.
func (s *Set) Get(name string) *Project {
	for _, p := range s.projects {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Projects returns the projects in insertion order.
func (s *Set) Projects() []*Project {
	return slices.Clone(s.projects)
}

// Names returns the project names in insertion order.
func (s *Set) Names() []string {
	names := make([]string, len(s.projects))
	for i, p := range s.projects {
		names[i] = p.Name
	}
	return names
}

// Prebuilt reports whether any project was recovered from a tree file.
func (s *Set) Prebuilt() bool {
	return slices.ContainsFunc(s.projects, func(p *Project) bool { return p.Prebuilt })
}

// Len returns the number of projects.
func (s *Set) Len() int { return len(s.projects) }

// Languages returns the per-language totals across all projects, largest
// code count first.
func (s *Set) Languages() []stats.Record {
	lists := make([][]stats.Record, len(s.projects))
	for i, p := range s.projects {
		lists[i] = p.Languages()
	}
	out := stats.Merge(lists...)
	stats.SortByKPI(out, stats.KPICode)
	return out
}
