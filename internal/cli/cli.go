// Package cli implements the codexray command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codexray/pkg/buildinfo"
	"github.com/matzehuels/codexray/pkg/cache"
	"github.com/matzehuels/codexray/pkg/httputil"
	"github.com/matzehuels/codexray/pkg/observability"
	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "codexray"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Before any subcommand runs, the logger is attached to the command context
// and pipeline stages are reported to it at debug level.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Codexray draws source trees as nested treemaps",
		Long: `Codexray turns cloc reports into a squarified treemap of directories,
sized by lines of code and colored by language, and lets you find where the
code actually lives.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.SetPipelineHooks(logHooks{c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.treeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/codexray/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath derives the output path without extension. An empty output
// falls back to the base name of input.
func basePath(output, input string) string {
	if output == "" {
		output = filepath.Base(input)
	}
	if strings.HasSuffix(output, tree.FileExt) {
		return strings.TrimSuffix(output, tree.FileExt)
	}
	return strings.TrimSuffix(output, filepath.Ext(output))
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPNG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// loadProjects reads every input, which may be a cloc report or an exported
// tree, into one project set. Inputs are local paths or http(s) URLs.
// names[i] names the projects of inputs[i]; missing names default to the
// file name without extension.
func loadProjects(ctx context.Context, inputs, names []string) (*project.Set, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	var (
		set    project.Set
		client *http.Client
	)
	for i, in := range inputs {
		var (
			data []byte
			err  error
		)
		if httputil.IsURL(in) {
			if client == nil {
				client = httputil.NewClient()
			}
			data, err = httputil.Fetch(ctx, client, in)
		} else {
			data, err = os.ReadFile(in)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", in, err)
		}
		name := projectName(in)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		projects, err := project.Load(name, data)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", in, err)
		}
		for _, p := range projects {
			set.Add(p)
		}
	}
	return &set, nil
}

func projectName(path string) string {
	return basePath("", path)
}
