package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/render/nodelink"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
)

type graphOpts struct {
	output      string
	format      string
	kpi         string
	collapse    bool
	collapseSet bool
	depth       int
	leftToRight bool
	leafColor   string
	innerColor  string
	seed        uint64
	noCache     bool
	filterFlags
}

// graphCommand creates the graph command, which draws the directory tree
// as a node-link diagram instead of a treemap.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{
		format:     "svg",
		kpi:        string(stats.DefaultKPI),
		depth:      3,
		leafColor:  paint.DefaultLeafScheme,
		innerColor: paint.DefaultInnerScheme,
		seed:       paint.DefaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "graph [file...]",
		Short: "Draw the directory tree as a node-link diagram",
		Long: `Draw the directory tree as a node-link diagram with Graphviz.

Boxes use the same colors as the treemap. Use -f dot to get Graphviz source
for external tools.`,
		Example: `  codexray graph api.json --depth 2
  codexray graph shop.xray.json -f dot --lr -o shop.dot`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.collapseSet = cmd.Flags().Changed("collapse")
			return c.runGraph(cmd.Context(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: <first input>.graph.<format>)")
	f.StringVarP(&opts.format, "format", "f", opts.format, "output format: svg or dot")
	f.StringVar(&opts.kpi, "kpi", opts.kpi, "value shown in labels: code, comment, blank, files")
	f.BoolVar(&opts.collapse, "collapse", false, "fuse single-child directory chains")
	f.IntVar(&opts.depth, "depth", opts.depth, "levels drawn below the root (0 for all)")
	f.BoolVar(&opts.leftToRight, "lr", false, "lay the tree out left to right")
	f.StringVar(&opts.leafColor, "leaf-color", opts.leafColor, "leaf color scheme")
	f.StringVar(&opts.innerColor, "inner-color", opts.innerColor, "inner color scheme")
	f.Uint64Var(&opts.seed, "seed", opts.seed, "seed for the random leaf color order")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the tree cache")
	opts.filterFlags.register(cmd)

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, inputs []string, opts graphOpts) error {
	if opts.format != "svg" && opts.format != "dot" {
		return fmt.Errorf("unsupported graph format %q (must be svg or dot)", opts.format)
	}
	kpi, err := stats.ParseKPI(opts.kpi)
	if err != nil {
		return err
	}
	palette, err := paint.NewPalette(opts.leafColor, opts.innerColor, opts.seed)
	if err != nil {
		return err
	}

	set, err := loadProjects(ctx, inputs, opts.projects)
	if err != nil {
		return err
	}
	popts := pipeline.DefaultOptions()
	popts.KPI = kpi
	popts.Collapse = shouldCollapse(set, opts.collapseSet, opts.collapse, opts.clean)
	popts.Logger = nil

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	root, _, err := runner.BuildWithCacheInfo(ctx, set.Projects(), opts.filter(set), popts)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(root, nodelink.Options{
		MaxDepth:    opts.depth,
		KPI:         kpi,
		Palette:     palette,
		LeftToRight: opts.leftToRight,
	})
	data := []byte(dot)
	if opts.format == "svg" {
		spin := newSpinner(ctx, "Laying out graph...")
		spin.Start()
		data, err = nodelink.RenderSVG(ctx, dot)
		spin.Stop()
		if err != nil {
			return err
		}
	}

	out := opts.output
	if out == "" {
		out = basePath("", inputs[0]) + ".graph." + opts.format
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Graph written")
	printFile(out, len(data))
	return nil
}
