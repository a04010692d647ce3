// Package stats defines per-language line statistics and the arithmetic
// used to aggregate them.
//
// A [Record] holds the code, blank and comment line counts plus the file
// count for one language. Lists of records are merged by language name with
// [Merge]; merging is plain elementwise addition, so summing the records of
// a set of files always equals summing the union of their records.
//
// A [KPI] selects which of the four counters sizes a treemap rectangle.
package stats

import (
	"cmp"
	"slices"

	"github.com/matzehuels/codexray/pkg/errors"
)

// KPI names the counter used as the layout value.
type KPI string

// Supported KPIs.
const (
	KPICode    KPI = "code"
	KPIBlank   KPI = "blank"
	KPIComment KPI = "comment"
	KPIFiles   KPI = "files"
)

// DefaultKPI is the KPI used when none is selected.
const DefaultKPI = KPICode

// KPIs lists every supported KPI in display order.
var KPIs = []KPI{KPICode, KPIComment, KPIBlank, KPIFiles}

// SumName is the name given to the record returned by [Sum].
const SumName = "_SUM_"

// ParseKPI converts a user-supplied name into a KPI. The empty string maps
// to [DefaultKPI].
func ParseKPI(s string) (KPI, error) {
	if s == "" {
		return DefaultKPI, nil
	}
	k := KPI(s)
	if !slices.Contains(KPIs, k) {
		return "", errors.New(errors.ErrCodeInvalidKPI, "invalid KPI %q (must be one of: code, comment, blank, files)", s)
	}
	return k, nil
}

// String returns the KPI name.
func (k KPI) String() string { return string(k) }

// Label returns a human-readable description of the KPI.
func (k KPI) Label() string {
	switch k {
	case KPICode:
		return "Lines of code"
	case KPIComment:
		return "Comments"
	case KPIBlank:
		return "Blanks"
	case KPIFiles:
		return "Files count"
	}
	return string(k)
}

// Record holds the line statistics of one language.
type Record struct {
	Name    string `json:"name"`
	Code    int64  `json:"code"`
	Blank   int64  `json:"blank"`
	Comment int64  `json:"comment"`
	Files   int64  `json:"files"`
}

// Get returns the counter selected by kpi. Unknown KPIs read as zero.
func (r Record) Get(kpi KPI) int64 {
	switch kpi {
	case KPICode:
		return r.Code
	case KPIBlank:
		return r.Blank
	case KPIComment:
		return r.Comment
	case KPIFiles:
		return r.Files
	}
	return 0
}

// Add returns r with the counters of o added. The name of r is kept.
func (r Record) Add(o Record) Record {
	r.Code += o.Code
	r.Blank += o.Blank
	r.Comment += o.Comment
	r.Files += o.Files
	return r
}

// Lines returns code + blank + comment.
func (r Record) Lines() int64 {
	return r.Code + r.Blank + r.Comment
}

// Merge combines record lists by language name. Records of the same
// language are summed elementwise; a language missing from some lists
// simply starts at zero. The result lists languages in order of first
// appearance and never shares backing storage with the inputs.
func Merge(lists ...[]Record) []Record {
	var out []Record
	index := make(map[string]int)
	for _, list := range lists {
		for _, r := range list {
			if i, ok := index[r.Name]; ok {
				out[i] = out[i].Add(r)
				continue
			}
			index[r.Name] = len(out)
			out = append(out, r)
		}
	}
	return out
}

// Sum folds all records into a single record named [SumName].
func Sum(list []Record) Record {
	total := Record{Name: SumName}
	for _, r := range list {
		total = total.Add(r)
	}
	return total
}

// Total returns the sum of the kpi counter over all records.
func Total(list []Record, kpi KPI) int64 {
	var n int64
	for _, r := range list {
		n += r.Get(kpi)
	}
	return n
}

// SortByKPI sorts list in place by the kpi counter, largest first.
// Ties keep their relative order.
func SortByKPI(list []Record, kpi KPI) {
	slices.SortStableFunc(list, func(a, b Record) int {
		return cmp.Compare(b.Get(kpi), a.Get(kpi))
	})
}

// Dominant returns the name of the language with the largest kpi share, or
// "" when list is empty or all counters are zero. Ties go to the language
// listed first.
func Dominant(list []Record, kpi KPI) string {
	best, name := int64(0), ""
	for _, r := range list {
		if v := r.Get(kpi); v > best {
			best, name = v, r.Name
		}
	}
	return name
}

// Find returns the record for the named language.
func Find(list []Record, name string) (Record, bool) {
	for _, r := range list {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// Names returns the language names of list in order.
func Names(list []Record) []string {
	names := make([]string, len(list))
	for i, r := range list {
		names[i] = r.Name
	}
	return names
}
