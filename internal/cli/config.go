package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
)

// renderFile is the layout of a render configuration file:
//
//	kpi = "code"
//	width = 1600
//	formats = ["png", "svg"]
//
//	[paint]
//	hide_labels_above = 4
//	leaf_color = "viridis"
//
//	[filter]
//	excluded_languages = ["YAML", "Markdown"]
//
// Keys missing from the file keep the value they had before decoding.
type renderFile struct {
	KPI       string         `toml:"kpi"`
	Width     float64        `toml:"width"`
	Height    float64        `toml:"height"`
	Collapse  bool           `toml:"collapse"`
	Container string         `toml:"container"`
	Formats   []string       `toml:"formats"`
	Seed      uint64         `toml:"seed"`
	Quality   int            `toml:"quality"`
	Paint     paint.Config   `toml:"paint"`
	Filter    project.Filter `toml:"filter"`
}

// loadRenderFile decodes path over opts and filter. Unknown keys are an
// error so that typos do not pass silently.
func loadRenderFile(path string, opts *pipeline.Options, filter *project.Filter) error {
	rf := renderFile{
		KPI:       string(opts.KPI),
		Width:     opts.Width,
		Height:    opts.Height,
		Collapse:  opts.Collapse,
		Container: opts.ContainerName,
		Formats:   opts.Formats,
		Seed:      opts.Seed,
		Quality:   opts.Quality,
		Paint:     opts.Paint,
		Filter:    filter.Clone(),
	}
	md, err := toml.DecodeFile(path, &rf)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	kpi, err := stats.ParseKPI(rf.KPI)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	opts.KPI = kpi
	opts.Width, opts.Height = rf.Width, rf.Height
	opts.Collapse = rf.Collapse
	opts.ContainerName = rf.Container
	opts.Formats = rf.Formats
	opts.Seed = rf.Seed
	opts.Quality = rf.Quality
	opts.Paint = rf.Paint
	*filter = rf.Filter
	return nil
}
