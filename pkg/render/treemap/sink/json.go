package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	kpi      stats.KPI
	withTree bool
	config   *paint.Config
}

// WithJSONKPI records the KPI the box values were computed with.
func WithJSONKPI(k stats.KPI) JSONOption { return func(r *jsonRenderer) { r.kpi = k } }

// WithJSONTree embeds the annotated tree in the interchange format, so the
// export can be re-rendered later.
func WithJSONTree() JSONOption { return func(r *jsonRenderer) { r.withTree = true } }

// WithJSONConfig records the painter configuration.
func WithJSONConfig(cfg paint.Config) JSONOption {
	return func(r *jsonRenderer) { r.config = &cfg }
}

type jsonOutput struct {
	Width        float64         `json:"width"`
	Height       float64         `json:"height"`
	PaddingTop   float64         `json:"padding_top"`
	PaddingOuter float64         `json:"padding_outer"`
	KPI          stats.KPI       `json:"kpi,omitempty"`
	Config       *paint.Config   `json:"config,omitempty"`
	Boxes        []jsonBox       `json:"boxes"`
	Hits         []jsonHit       `json:"hits"`
	Tree         json.RawMessage `json:"tree,omitempty"`
}

type jsonBox struct {
	Path     string  `json:"path"`
	Name     string  `json:"name"`
	Depth    int     `json:"depth"`
	Value    int64   `json:"value"`
	Dominant string  `json:"dominant,omitempty"`
	Leaf     bool    `json:"leaf,omitempty"`
	X0       float64 `json:"x0"`
	Y0       float64 `json:"y0"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
}

type jsonHit struct {
	Path string `json:"path"`
	paint.HitRect
}

// RenderJSON exports the layout geometry and the hit rectangles as indented
// JSON. Hits are listed in paint order, so the last match for a point is
// the innermost node.
func RenderJSON(l layout.Layout, rects []paint.HitRect, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:        l.Width,
		Height:       l.Height,
		PaddingTop:   l.PaddingTop,
		PaddingOuter: l.PaddingOuter,
		KPI:          r.kpi,
		Config:       r.config,
		Boxes:        make([]jsonBox, len(l.Boxes)),
		Hits:         make([]jsonHit, len(rects)),
	}
	for i, b := range l.Boxes {
		out.Boxes[i] = jsonBox{
			Path:     b.Node.Path,
			Name:     b.Node.Name,
			Depth:    b.Node.Depth,
			Value:    b.Node.Value,
			Dominant: b.Node.Dominant,
			Leaf:     b.Node.IsLeaf(),
			X0:       b.Rect.X0,
			Y0:       b.Rect.Y0,
			X1:       b.Rect.X1,
			Y1:       b.Rect.Y1,
		}
	}
	for i, h := range rects {
		out.Hits[i] = jsonHit{Path: h.Node.Path, HitRect: h}
	}

	if r.withTree {
		if root, ok := l.Root(); ok {
			data, err := tree.Marshal(root.Node)
			if err != nil {
				return nil, fmt.Errorf("marshal tree: %w", err)
			}
			out.Tree = data
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return data, nil
}
