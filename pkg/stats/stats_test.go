package stats

import (
	"reflect"
	"testing"

	"github.com/matzehuels/codexray/pkg/errors"
)

func TestParseKPI(t *testing.T) {
	tests := []struct {
		in      string
		want    KPI
		wantErr bool
	}{
		{"code", KPICode, false},
		{"blank", KPIBlank, false},
		{"comment", KPIComment, false},
		{"files", KPIFiles, false},
		{"", KPICode, false},
		{"Code", "", true},
		{"loc", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKPI(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKPI(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidKPI) {
			t.Errorf("ParseKPI(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseKPI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecordGet(t *testing.T) {
	r := Record{Name: "Go", Code: 1, Blank: 2, Comment: 3, Files: 4}
	for kpi, want := range map[KPI]int64{KPICode: 1, KPIBlank: 2, KPIComment: 3, KPIFiles: 4, "bogus": 0} {
		if got := r.Get(kpi); got != want {
			t.Errorf("Get(%s) = %d, want %d", kpi, got, want)
		}
	}
	if r.Lines() != 6 {
		t.Errorf("Lines() = %d, want 6", r.Lines())
	}
}

func TestMerge(t *testing.T) {
	a := []Record{{Name: "Go", Code: 10, Files: 1}, {Name: "Python", Code: 5, Files: 1}}
	b := []Record{{Name: "Python", Code: 7, Comment: 2, Files: 2}, {Name: "C", Blank: 3, Files: 1}}

	got := Merge(a, b)
	want := []Record{
		{Name: "Go", Code: 10, Files: 1},
		{Name: "Python", Code: 12, Comment: 2, Files: 3},
		{Name: "C", Blank: 3, Files: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}

	// Inputs must not be modified.
	if a[1].Code != 5 || b[0].Code != 7 {
		t.Error("Merge mutated its inputs")
	}

	// Output must not alias the inputs.
	got[0].Code = 999
	if a[0].Code != 10 {
		t.Error("Merge output aliases its input")
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(); len(got) != 0 {
		t.Errorf("Merge() = %v, want empty", got)
	}
	if got := Merge(nil, []Record{}); len(got) != 0 {
		t.Errorf("Merge(nil, empty) = %v, want empty", got)
	}
}

func TestMergeConservation(t *testing.T) {
	sets := [][]Record{
		{{Name: "Go", Code: 3, Blank: 1, Comment: 1, Files: 1}},
		{{Name: "Go", Code: 4, Files: 1}, {Name: "Rust", Code: 8, Comment: 9, Files: 1}},
		{{Name: "Rust", Blank: 2, Files: 1}},
	}

	var separate Record
	for _, s := range sets {
		separate = separate.Add(Sum(s))
	}
	merged := Sum(Merge(sets...))

	for _, kpi := range KPIs {
		if separate.Get(kpi) != merged.Get(kpi) {
			t.Errorf("%s: separate %d != merged %d", kpi, separate.Get(kpi), merged.Get(kpi))
		}
	}
}

func TestTotalAndSum(t *testing.T) {
	list := []Record{{Name: "Go", Code: 10, Files: 2}, {Name: "C", Code: 4, Blank: 1, Files: 1}}
	if got := Total(list, KPICode); got != 14 {
		t.Errorf("Total(code) = %d, want 14", got)
	}
	if got := Total(list, KPIFiles); got != 3 {
		t.Errorf("Total(files) = %d, want 3", got)
	}
	s := Sum(list)
	if s.Name != SumName || s.Code != 14 || s.Blank != 1 || s.Files != 3 {
		t.Errorf("Sum() = %+v", s)
	}
}

func TestSortByKPIAndDominant(t *testing.T) {
	list := []Record{
		{Name: "C", Code: 1, Comment: 50},
		{Name: "Go", Code: 30},
		{Name: "Rust", Code: 30},
	}
	if got := Dominant(list, KPICode); got != "Go" {
		t.Errorf("Dominant(code) = %q, want Go", got)
	}
	if got := Dominant(list, KPIComment); got != "C" {
		t.Errorf("Dominant(comment) = %q, want C", got)
	}
	if got := Dominant(list, KPIBlank); got != "" {
		t.Errorf("Dominant(blank) = %q, want empty", got)
	}

	SortByKPI(list, KPICode)
	if got := Names(list); !reflect.DeepEqual(got, []string{"Go", "Rust", "C"}) {
		t.Errorf("SortByKPI order = %v", got)
	}
}

func TestFind(t *testing.T) {
	list := []Record{{Name: "Go", Code: 1}}
	if r, ok := Find(list, "Go"); !ok || r.Code != 1 {
		t.Errorf("Find(Go) = %+v, %v", r, ok)
	}
	if _, ok := Find(list, "C"); ok {
		t.Error("Find(C) should miss")
	}
}
