package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/stats"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	tableHeader     = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableBorder     = lipgloss.NewStyle().Foreground(colorDim)
	tableNumber     = lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)
	tableExcluded   = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)
	tableNumberDim  = tableExcluded.Align(lipgloss.Right)
	tableActiveName = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// LanguagePicker - Interactive language exclusion
// =============================================================================

// LanguagePicker is the bubbletea model for toggling which languages are
// drawn. Confirmed reports whether the user accepted the selection.
type LanguagePicker struct {
	Languages []stats.Record
	Excluded  map[string]bool
	Cursor    int
	Offset    int
	Height    int
	Confirmed bool
}

// NewLanguagePicker creates a picker with the given languages pre-excluded.
func NewLanguagePicker(languages []stats.Record, excluded []string) LanguagePicker {
	return LanguagePicker{
		Languages: languages,
		Excluded:  excludedSet(excluded),
		Height:    15,
	}
}

// Selection returns the excluded languages in table order.
func (m LanguagePicker) Selection() []string {
	var out []string
	for _, l := range m.Languages {
		if m.Excluded[l.Name] {
			out = append(out, l.Name)
		}
	}
	return out
}

func (m LanguagePicker) Init() tea.Cmd {
	return nil
}

func (m LanguagePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Offset = min(m.Offset, m.Cursor)
			}
		case "down", "j":
			if m.Cursor < len(m.Languages)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Languages) > 0 {
				name := m.Languages[m.Cursor].Name
				m.Excluded = toggled(m.Excluded, name)
			}
		case "a":
			m.Excluded = excludedSet(project.AutoExclude(m.Languages))
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-8)
	}
	return m, nil
}

// toggled returns a copy of set with name flipped, so earlier model values
// stay unchanged.
func toggled(set map[string]bool, name string) map[string]bool {
	out := make(map[string]bool, len(set)+1)
	for k, v := range set {
		out[k] = v
	}
	out[name] = !out[name]
	return out
}

func (m LanguagePicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Languages"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a defaults  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Languages))
	visible := m.Languages[m.Offset:end]
	b.WriteString(languageTable(visible, m.Excluded, m.Cursor-m.Offset))
	b.WriteString("\n\n")

	s := project.Summarize(m.Languages, project.Filter{ExcludedLanguages: m.Selection()})
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %.1f%% of code drawn  [%d/%d]",
		s.CodeRatio(), m.Cursor+1, len(m.Languages))))
	return b.String()
}

// =============================================================================
// Language table
// =============================================================================

// languageTable renders languages as a bordered table. Excluded languages
// are struck through; cursor marks a row, or -1 for none.
func languageTable(languages []stats.Record, excluded map[string]bool, cursor int) string {
	total := stats.Total(languages, stats.KPICode)

	rows := make([][]string, len(languages))
	for i, l := range languages {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		share := 0.0
		if total > 0 {
			share = 100 * float64(l.Code) / float64(total)
		}
		rows[i] = []string{
			mark,
			l.Name,
			humanize.Comma(l.Files),
			humanize.Comma(l.Blank),
			humanize.Comma(l.Comment),
			humanize.Comma(l.Code),
			fmt.Sprintf("%.1f%%", share),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		Headers("", "Language", "Files", "Blank", "Comment", "Code", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeader
			}
			if row < 0 || row >= len(languages) {
				return lipgloss.NewStyle()
			}
			off := excluded[languages[row].Name]
			style := lipgloss.NewStyle()
			switch {
			case col >= 2 && off:
				style = tableNumberDim
			case col >= 2:
				style = tableNumber
			case col == 1 && off:
				style = tableExcluded
			case col == 1:
				style = tableActiveName
			}
			if row == cursor {
				style = style.Bold(true)
			}
			return style.Padding(0, 1)
		})

	return t.Render()
}

// excludedSet turns a name list into a lookup set.
func excludedSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// pickLanguages runs the interactive picker and returns the chosen
// exclusions. ok is false when the user quit without confirming.
func pickLanguages(languages []stats.Record, excluded []string) (out []string, ok bool, err error) {
	final, err := tea.NewProgram(NewLanguagePicker(languages, excluded)).Run()
	if err != nil {
		return nil, false, fmt.Errorf("language picker: %w", err)
	}
	m := final.(LanguagePicker)
	if !m.Confirmed {
		return slices.Clone(excluded), false, nil
	}
	return m.Selection(), true, nil
}
