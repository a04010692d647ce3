package project

import (
	"github.com/matzehuels/codexray/pkg/stats"
)

// Summary splits language totals into the part that survives a filter's
// language exclusions and the part that does not.
type Summary struct {
	Active        []stats.Record `json:"active"`
	Inactive      []stats.Record `json:"inactive"`
	ActiveCode    int64          `json:"active_code"`
	InactiveCode  int64          `json:"inactive_code"`
	ActiveFiles   int64          `json:"active_files"`
	InactiveFiles int64          `json:"inactive_files"`
}

// Summarize partitions languages by f's language exclusions. Folder
// exclusions are not considered.
func Summarize(languages []stats.Record, f Filter) Summary {
	var s Summary
	for _, l := range languages {
		if f.LanguageExcluded(l.Name) {
			s.Inactive = append(s.Inactive, l)
			s.InactiveCode += l.Code
			s.InactiveFiles += l.Files
			continue
		}
		s.Active = append(s.Active, l)
		s.ActiveCode += l.Code
		s.ActiveFiles += l.Files
	}
	return s
}

// CodeRatio returns the active share of code lines in percent.
func (s Summary) CodeRatio() float64 {
	return ratio(s.ActiveCode, s.InactiveCode)
}

// FilesRatio returns the active share of files in percent.
func (s Summary) FilesRatio() float64 {
	return ratio(s.ActiveFiles, s.InactiveFiles)
}

// NothingLeft reports whether every line of code is excluded.
func (s Summary) NothingLeft() bool {
	return s.ActiveCode == 0
}

func ratio(active, inactive int64) float64 {
	if active <= 0 {
		return 0
	}
	return 100 * float64(active) / float64(active+inactive)
}
