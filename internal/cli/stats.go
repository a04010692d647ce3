package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codexray/pkg/project"
)

// statsCommand creates the stats command, which prints the per-language
// totals of the inputs and how much of them a filter keeps.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		flags  filterFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats [file...]",
		Short: "Show language statistics of cloc reports or tree files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadProjects(cmd.Context(), args, flags.projects)
			if err != nil {
				return err
			}
			languages := set.Languages()
			filter := flags.filter(set)
			summary := project.Summarize(languages, filter)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Projects []string `json:"projects"`
					project.Summary
					CodeRatio  float64 `json:"code_ratio"`
					FilesRatio float64 `json:"files_ratio"`
				}{set.Names(), summary, summary.CodeRatio(), summary.FilesRatio()})
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("%d project(s): ", set.Len())) + StyleValue.Render(strings.Join(set.Names(), ", ")))
			fmt.Println(languageTable(languages, excludedSet(filter.ExcludedLanguages), -1))
			printKeyValue("Code", fmt.Sprintf("%s active, %s excluded (%.1f%%)",
				humanize.Comma(summary.ActiveCode), humanize.Comma(summary.InactiveCode), summary.CodeRatio()))
			printKeyValue("Files", fmt.Sprintf("%s active, %s excluded (%.1f%%)",
				humanize.Comma(summary.ActiveFiles), humanize.Comma(summary.InactiveFiles), summary.FilesRatio()))
			if summary.NothingLeft() {
				printWarning("Every language is excluded")
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
