package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codexray/pkg/render/treemap/hit"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

type pickOpts struct {
	x, y          float64
	displayWidth  float64
	displayHeight float64
	asJSON        bool
}

// pickCommand creates the pick command, which finds the node under a
// point of a rendered treemap using its JSON export.
func (c *CLI) pickCommand() *cobra.Command {
	var opts pickOpts

	cmd := &cobra.Command{
		Use:   "pick [export.json]",
		Short: "Show the node under a point of a rendered treemap",
		Long: `Show the node under a point of a treemap rendered with "-f json".

Coordinates are canvas pixels. If the image was displayed at another size,
pass --display-width/--display-height and the point is scaled first.`,
		Example: `  codexray render api.json -f png,json
  codexray pick api.treemap.json --x 640 --y 320`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			exp, err := readExport(data)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			x, y := hit.Scale(opts.x, opts.y, opts.displayWidth, opts.displayHeight, exp.Width, exp.Height)
			node := hit.Find(exp.rects, x, y)
			if node == nil {
				printInfo("Nothing at (%.0f, %.0f)", x, y)
				return nil
			}
			if opts.asJSON {
				return writeNode(cmd.OutOrStdout(), node, exp.KPI)
			}
			printNode(node, exp.KPI)
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 0, "x coordinate")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "y coordinate")
	cmd.Flags().Float64Var(&opts.displayWidth, "display-width", 0, "width the image was displayed at")
	cmd.Flags().Float64Var(&opts.displayHeight, "display-height", 0, "height the image was displayed at")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the node as JSON")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

// export is the part of a JSON render export that hit testing needs.
type export struct {
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	KPI    stats.KPI       `json:"kpi"`
	Hits   []exportHit     `json:"hits"`
	Tree   json.RawMessage `json:"tree"`

	rects []paint.HitRect
}

type exportHit struct {
	Path string `json:"path"`
	paint.HitRect
}

// readExport decodes a JSON export and reattaches each hit rectangle to
// its node in the embedded tree.
func readExport(data []byte) (*export, error) {
	var exp export
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, err
	}
	if len(exp.Tree) == 0 {
		return nil, fmt.Errorf("export has no tree; render it with -f json")
	}
	root, err := tree.ReadJSON(bytes.NewReader(exp.Tree))
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*tree.Node)
	root.Walk(func(n *tree.Node) bool {
		byPath[n.Path] = n
		return true
	})
	exp.rects = make([]paint.HitRect, 0, len(exp.Hits))
	for _, h := range exp.Hits {
		r := h.HitRect
		r.Node = byPath[h.Path]
		if r.Node == nil {
			return nil, fmt.Errorf("hit %q has no node in the tree", h.Path)
		}
		exp.rects = append(exp.rects, r)
	}
	return &exp, nil
}

func printNode(n *tree.Node, kpi stats.KPI) {
	fmt.Println(StyleTitle.Render(n.Path))
	printKeyValue("Name", n.Name)
	printKeyValue("Depth", fmt.Sprint(n.Depth))
	printKeyValue(kpi.Label(), humanize.Comma(n.Value))
	printKeyValue("Files", humanize.Comma(int64(n.FileCount())))
	if n.Dominant != "" {
		printKeyValue("Language", n.Dominant)
	}
	if len(n.Children) > 0 {
		names := make([]string, len(n.Children))
		for i, c := range n.Children {
			names[i] = c.Name
		}
		printKeyValue("Children", strings.Join(names, ", "))
	}
	for _, r := range n.RollupStats {
		printDetail("%-20s %10s", r.Name, humanize.Comma(r.Get(kpi)))
	}
}

type nodeJSON struct {
	Path      string         `json:"path"`
	Name      string         `json:"name"`
	Depth     int            `json:"depth"`
	KPI       stats.KPI      `json:"kpi"`
	Value     int64          `json:"value"`
	Files     int            `json:"files"`
	Dominant  string         `json:"dominant,omitempty"`
	Languages []stats.Record `json:"languages"`
}

func writeNode(w io.Writer, n *tree.Node, kpi stats.KPI) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nodeJSON{
		Path:      n.Path,
		Name:      n.Name,
		Depth:     n.Depth,
		KPI:       kpi,
		Value:     n.Value,
		Files:     n.FileCount(),
		Dominant:  n.Dominant,
		Languages: n.RollupStats,
	})
}
