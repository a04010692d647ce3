package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
)

// renderOpts holds the command-line flags for the render command. Values
// only take effect when the flag was given, so a --config file is not
// overridden by flag defaults.
type renderOpts struct {
	output        string
	formats       string
	config        string
	noCache       bool
	refresh       bool
	pickLanguages bool

	kpi       string
	collapse  bool
	container string
	width     float64
	height    float64
	seed      uint64
	quality   int
	paint     paint.Config

	filterFlags
}

func newRenderOpts() *renderOpts {
	return &renderOpts{
		kpi:       string(stats.DefaultKPI),
		container: pipeline.DefaultContainerName,
		quality:   pipeline.DefaultQuality,
		seed:      paint.DefaultSeed,
		paint:     paint.DefaultConfig(),
	}
}

// renderCommand creates the render command for drawing treemaps.
func (c *CLI) renderCommand() *cobra.Command {
	opts := newRenderOpts()

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render a treemap from cloc reports or a tree file",
		Long: `Render a treemap from cloc reports or a tree written by "codexray tree".

Outputs are written next to --output (or the first input) with one file per
format. Settings are taken from defaults, then --config, then flags.`,
		Example: `  codexray render api.json web.json -f png,svg --clean
  codexray render shop.xray.json --config codexray.toml -o shop.png
  codexray render api.json --pick-languages`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.Flags(), args, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (o *renderOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "output file or base path (default: <first input>.treemap)")
	f.StringVarP(&o.formats, "format", "f", "", "output format(s): png (default), jpeg, svg, json (comma-separated)")
	f.StringVar(&o.config, "config", "", "TOML render configuration file")
	f.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&o.refresh, "refresh", false, "ignore cached results but store new ones")
	f.BoolVar(&o.pickLanguages, "pick-languages", false, "choose excluded languages interactively")

	f.StringVar(&o.kpi, "kpi", o.kpi, "value to size boxes by: code, comment, blank, files")
	f.BoolVar(&o.collapse, "collapse", false, "fuse single-child directory chains")
	f.StringVar(&o.container, "container", o.container, "name of the multi-project root")
	f.Float64Var(&o.width, "width", 0, "canvas width (default 2000, or 16:9 of --height)")
	f.Float64Var(&o.height, "height", 0, "canvas height (default 1000, or 9:16 of --width)")
	f.Uint64Var(&o.seed, "seed", o.seed, "seed for the random leaf color order")
	f.IntVar(&o.quality, "quality", o.quality, "JPEG quality (1-100)")

	f.IntVar(&o.paint.HideBelow, "hide-below", o.paint.HideBelow, "skip nodes shallower than this depth")
	f.IntVar(&o.paint.HideAbove, "hide-above", o.paint.HideAbove, "skip nodes deeper than this depth")
	f.IntVar(&o.paint.HideLabelsAbove, "hide-labels-above", o.paint.HideLabelsAbove, "no labels deeper than this depth")
	f.IntVar(&o.paint.ThinLabelsAbove, "thin-labels-above", o.paint.ThinLabelsAbove, "small labels deeper than this depth")
	f.BoolVar(&o.paint.Labels, "labels", o.paint.Labels, "draw node labels")
	f.BoolVar(&o.paint.LabKPI, "label-kpi", o.paint.LabKPI, "append the value to labels")
	f.BoolVar(&o.paint.LabShadows, "label-shadows", o.paint.LabShadows, "draw a glow behind labels")
	f.BoolVar(&o.paint.Boxes, "boxes", o.paint.Boxes, "fill boxes")
	f.BoolVar(&o.paint.BoxShadows, "box-shadows", o.paint.BoxShadows, "draw shadows under boxes")
	f.BoolVar(&o.paint.Lines, "lines", o.paint.Lines, "outline boxes")
	f.StringVar(&o.paint.LeafColor, "leaf-color", o.paint.LeafColor, "leaf color scheme")
	f.StringVar(&o.paint.InnerColor, "inner-color", o.paint.InnerColor, "inner color scheme")

	o.filterFlags.register(cmd)
}

// options resolves the pipeline options and filter: defaults, then the
// config file, then every flag that was set explicitly.
func (o *renderOpts) options(flags *pflag.FlagSet, set *project.Set) (pipeline.Options, project.Filter, error) {
	popts := pipeline.DefaultOptions()
	popts.Width, popts.Height = 0, 0
	var filter project.Filter

	if o.config != "" {
		if err := loadRenderFile(o.config, &popts, &filter); err != nil {
			return popts, filter, err
		}
	}

	changed := flags.Changed
	if changed("kpi") {
		kpi, err := stats.ParseKPI(o.kpi)
		if err != nil {
			return popts, filter, err
		}
		popts.KPI = kpi
	}
	switch {
	case changed("collapse") || o.clean:
		popts.Collapse = o.collapse || o.clean
	case set.Prebuilt():
		popts.Collapse = true
	}
	if changed("container") {
		popts.ContainerName = o.container
	}
	if changed("width") || changed("height") {
		// A single side given on the command line keeps its 16:9 partner.
		popts.Width, popts.Height = o.width, o.height
	}
	if changed("seed") {
		popts.Seed = o.seed
	}
	if changed("quality") {
		popts.Quality = o.quality
	}
	if changed("format") || len(popts.Formats) == 0 {
		popts.Formats = parseFormats(o.formats)
	}
	o.applyPaint(flags, &popts.Paint)
	popts.Refresh = o.refresh

	extra := o.filter(set)
	for _, l := range extra.ExcludedLanguages {
		filter.ExcludeLanguage(l)
	}
	for _, folder := range extra.ExcludedFolders {
		filter.ExcludeFolder(folder)
	}

	if err := popts.ValidateAndSetDefaults(); err != nil {
		return popts, filter, err
	}
	// Let the runner log through the CLI logger.
	popts.Logger = nil
	return popts, filter, nil
}

func (o *renderOpts) applyPaint(flags *pflag.FlagSet, cfg *paint.Config) {
	ints := map[string]struct{ dst, src *int }{
		"hide-below":        {&cfg.HideBelow, &o.paint.HideBelow},
		"hide-above":        {&cfg.HideAbove, &o.paint.HideAbove},
		"hide-labels-above": {&cfg.HideLabelsAbove, &o.paint.HideLabelsAbove},
		"thin-labels-above": {&cfg.ThinLabelsAbove, &o.paint.ThinLabelsAbove},
	}
	for name, p := range ints {
		if flags.Changed(name) {
			*p.dst = *p.src
		}
	}
	bools := map[string]struct{ dst, src *bool }{
		"labels":        {&cfg.Labels, &o.paint.Labels},
		"label-kpi":     {&cfg.LabKPI, &o.paint.LabKPI},
		"label-shadows": {&cfg.LabShadows, &o.paint.LabShadows},
		"boxes":         {&cfg.Boxes, &o.paint.Boxes},
		"box-shadows":   {&cfg.BoxShadows, &o.paint.BoxShadows},
		"lines":         {&cfg.Lines, &o.paint.Lines},
	}
	for name, p := range bools {
		if flags.Changed(name) {
			*p.dst = *p.src
		}
	}
	if flags.Changed("leaf-color") {
		cfg.LeafColor = o.paint.LeafColor
	}
	if flags.Changed("inner-color") {
		cfg.InnerColor = o.paint.InnerColor
	}
}

func (c *CLI) runRender(ctx context.Context, flags *pflag.FlagSet, inputs []string, o *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	set, err := loadProjects(ctx, inputs, o.projects)
	if err != nil {
		return err
	}
	popts, filter, err := o.options(flags, set)
	if err != nil {
		return err
	}

	if o.pickLanguages {
		excluded, ok, err := pickLanguages(set.Languages(), filter.ExcludedLanguages)
		if err != nil {
			return err
		}
		if !ok {
			return context.Canceled
		}
		filter.ExcludedLanguages = excluded
	}

	summary := project.Summarize(set.Languages(), filter)
	if summary.NothingLeft() {
		printWarning("Every language is excluded; the treemap will be empty")
	}
	logger.Debug("render options", "kpi", popts.KPI, "width", popts.Width, "height", popts.Height,
		"formats", popts.Formats, "excluded", filter.ExcludedLanguages)

	runner, err := c.newRunner(o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	root, _, err := runner.BuildWithCacheInfo(ctx, set.Projects(), filter, popts)
	if err != nil {
		return err
	}

	spin := newSpinner(ctx, fmt.Sprintf("Rendering %.0fx%.0f treemap...", popts.Width, popts.Height))
	spin.Start()
	result, err := runner.Render(ctx, root, popts, nil)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered treemap")

	paths, err := writeArtifacts(o.output, inputs[0], popts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Treemap rendered (%.1f%% of code drawn)", summary.CodeRatio())
	for _, p := range paths {
		printFile(p.path, p.size)
	}
	printTreeStats(result.Stats.NodeCount, root.FileCount(), root.Value, popts.KPI.String(), result.CacheInfo.RenderHit)
	if i := slices.IndexFunc(paths, func(p writtenFile) bool { return p.format == pipeline.FormatJSON }); i >= 0 {
		printNextStep("Inspect a box", fmt.Sprintf("codexray pick %s --x %.0f --y %.0f", paths[i].path, popts.Width/2, popts.Height/2))
	}
	return nil
}

type writtenFile struct {
	format string
	path   string
	size   int
}

// writeArtifacts writes one file per format as <base>.<format>. Without an
// explicit output the base is <input>.treemap, so a cloc report named
// api.json is never overwritten by the JSON export.
func writeArtifacts(output, input string, formats []string, artifacts map[string][]byte) ([]writtenFile, error) {
	base := basePath(output, input)
	if output == "" {
		base += ".treemap"
	}
	out := make([]writtenFile, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return out, fmt.Errorf("write %s: %w", path, err)
		}
		out = append(out, writtenFile{format: format, path: path, size: len(data)})
	}
	return out, nil
}
