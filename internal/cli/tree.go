package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

// filterFlags are the exclusion flags shared by tree, render and stats.
type filterFlags struct {
	projects  []string
	folders   []string
	languages []string
	clean     bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.projects, "project", "p", nil, "project name per input, in order (default: file name)")
	cmd.Flags().StringSliceVar(&f.folders, "exclude", nil, "exclude folders by node path, e.g. api/internal/gen")
	cmd.Flags().StringSliceVar(&f.languages, "exclude-lang", nil, "exclude languages by cloc name")
	cmd.Flags().BoolVar(&f.clean, "clean", false, "exclude generated and markup languages and collapse single-child chains")
}

// filter builds the project filter. With --clean, the default exclusions
// found among the projects' languages are added.
func (f *filterFlags) filter(set *project.Set) project.Filter {
	var out project.Filter
	for _, l := range f.languages {
		out.ExcludeLanguage(l)
	}
	if f.clean {
		for _, l := range project.AutoExclude(set.Languages()) {
			out.ExcludeLanguage(l)
		}
	}
	for _, folder := range f.folders {
		out.ExcludeFolder(folder)
	}
	return out
}

type treeOpts struct {
	inputs      []string
	output      string
	kpi         string
	collapse    bool
	collapseSet bool
	container string
	noCache   bool
	filterFlags
}

// treeCommand creates the tree command, which turns cloc reports into a
// filtered, annotated tree file that render can pick up later.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{kpi: string(stats.DefaultKPI)}

	cmd := &cobra.Command{
		Use:   "tree [cloc.json...]",
		Short: "Build a directory tree from cloc reports",
		Long: `Build a directory tree from one or more cloc --by-file --json reports.

The tree is filtered, optionally collapsed, annotated with the chosen KPI and
written as JSON. Multiple reports become projects under a shared container.`,
		Example: `  cloc --by-file --json . > api.json
  codexray tree api.json web.json --clean -o shop.xray.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputs = append(opts.inputs, args...)
			opts.collapseSet = cmd.Flags().Changed("collapse")
			return c.runTree(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.inputs, "in", "i", nil, "input cloc report or tree (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <first input>"+tree.FileExt+")")
	cmd.Flags().StringVar(&opts.kpi, "kpi", opts.kpi, "value to size boxes by: code, comment, blank, files")
	cmd.Flags().BoolVar(&opts.collapse, "collapse", false, "fuse single-child directory chains")
	cmd.Flags().StringVar(&opts.container, "container", pipeline.DefaultContainerName, "name of the multi-project root")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the tree cache")
	opts.filterFlags.register(cmd)

	return cmd
}

func (c *CLI) runTree(ctx context.Context, opts treeOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	set, err := loadProjects(ctx, opts.inputs, opts.projects)
	if err != nil {
		return err
	}
	logger.Debug("loaded projects", "projects", set.Names(), "languages", stats.Names(set.Languages()))

	kpi, err := stats.ParseKPI(opts.kpi)
	if err != nil {
		return err
	}
	popts := pipeline.DefaultOptions()
	popts.KPI = kpi
	popts.Collapse = shouldCollapse(set, opts.collapseSet, opts.collapse, opts.clean)
	popts.ContainerName = opts.container
	popts.Logger = nil

	for _, l := range opts.languages {
		if !hasLanguage(set, l) {
			printWarning("Language %q does not occur in the input", l)
		}
	}
	filter := opts.filter(set)
	if len(filter.ExcludedLanguages) > 0 {
		logger.Info("Excluding languages", "languages", filter.ExcludedLanguages)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	root, cached, err := runner.BuildWithCacheInfo(ctx, set.Projects(), filter, popts)
	if err != nil {
		return err
	}
	if root.Value == 0 {
		printWarning("Nothing left to draw after filtering")
	}

	out := opts.output
	if out == "" {
		out = basePath("", opts.inputs[0]) + tree.FileExt
	}
	if err := tree.WriteFile(root, out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	prog.done("Built tree")

	printSuccess("Tree written")
	printFile(out, 0)
	printTreeStats(root.Count(), root.FileCount(), root.Value, kpi.String(), cached)
	printNextStep("Render it", "codexray render "+out)
	return nil
}

// shouldCollapse decides whether single-child chains are fused. An explicit
// --collapse or --clean wins; otherwise trees read from tree files are
// collapsed again, as they were when written.
func shouldCollapse(set *project.Set, explicit, collapse, clean bool) bool {
	if explicit || clean {
		return collapse || clean
	}
	return set.Prebuilt()
}

// hasLanguage reports whether any project contains the named language.
func hasLanguage(set *project.Set, name string) bool {
	_, ok := stats.Find(set.Languages(), name)
	return ok
}
