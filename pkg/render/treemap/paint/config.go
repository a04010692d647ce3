package paint

import (
	"github.com/matzehuels/codexray/pkg/errors"
)

// Default thresholds and color schemes.
const (
	DefaultHideBelow       = 0
	DefaultHideAbove       = 99
	DefaultHideLabelsAbove = 6
	DefaultThinLabelsAbove = 3

	DefaultLeafScheme  = "rainbow"
	DefaultInnerScheme = "purple-depth"
)

// Config controls what the painter draws. Depths refer to tree.Node.Depth,
// so the synthetic multi-project container sits at depth -1.
type Config struct {
	HideBelow       int `json:"hide_below" toml:"hide_below"`
	HideAbove       int `json:"hide_above" toml:"hide_above"`
	HideLabelsAbove int `json:"hide_labels_above" toml:"hide_labels_above"`
	ThinLabelsAbove int `json:"thin_labels_above" toml:"thin_labels_above"`

	Labels     bool `json:"labels" toml:"labels"`
	LabKPI     bool `json:"lab_kpi" toml:"lab_kpi"`
	LabShadows bool `json:"lab_shadows" toml:"lab_shadows"`
	Boxes      bool `json:"boxes" toml:"boxes"`
	BoxShadows bool `json:"box_shadows" toml:"box_shadows"`
	Lines      bool `json:"lines" toml:"lines"`

	LeafColor  string `json:"leaf_color" toml:"leaf_color"`
	InnerColor string `json:"inner_color" toml:"inner_color"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		HideBelow:       DefaultHideBelow,
		HideAbove:       DefaultHideAbove,
		HideLabelsAbove: DefaultHideLabelsAbove,
		ThinLabelsAbove: DefaultThinLabelsAbove,
		Labels:          true,
		Boxes:           true,
		BoxShadows:      true,
		Lines:           true,
		LeafColor:       DefaultLeafScheme,
		InnerColor:      DefaultInnerScheme,
	}
}

// ShrinkDepth is the deepest level whose boxes are inset to separate
// top-level projects visually.
func (c Config) ShrinkDepth() int {
	return c.HideBelow + 1
}

// Validate checks depth bounds and color scheme names.
func (c Config) Validate() error {
	if c.HideBelow < -1 {
		return errors.New(errors.ErrCodeInvalidConfig, "hide_below must be >= -1, got %d", c.HideBelow)
	}
	if c.HideAbove < c.HideBelow {
		return errors.New(errors.ErrCodeInvalidConfig,
			"hide_above (%d) must not be below hide_below (%d)", c.HideAbove, c.HideBelow)
	}
	if c.HideLabelsAbove < -1 || c.ThinLabelsAbove < -1 {
		return errors.New(errors.ErrCodeInvalidConfig, "label depths must be >= -1")
	}
	if _, ok := LookupScheme(c.LeafColor); !ok {
		return errors.New(errors.ErrCodeInvalidScheme, "unknown leaf color scheme %q", c.LeafColor)
	}
	if _, ok := LookupScheme(c.InnerColor); !ok {
		return errors.New(errors.ErrCodeInvalidScheme, "unknown inner color scheme %q", c.InnerColor)
	}
	return nil
}
