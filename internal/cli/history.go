// internal/cli/history.go
package evalview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/export"
	"github.com/mfuller/evalview/internal/history"
	"github.com/mfuller/evalview/internal/util"
)

var (
	historyModelFilter  int64
	historyPromptFilter int64
	historyTimeline     bool
	historyFull         bool
)

const historyCellWidth = 26

var (
	matrixHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	matrixCellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// historyCmd implements 'history <input-id>': every recorded output for an
// input as a model × prompt matrix, or as a day-by-day timeline.
var historyCmd = &cobra.Command{
	Use:   "history <input-id>",
	Short: "Show every recorded output for an input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "input id")
		if err != nil {
			return err
		}
		h, err := newClient().InputHistory(context.Background(), id)
		if err != nil {
			return err
		}
		debugDump(h)

		if h.Input != nil {
			name := h.Input.Name
			if name == "" {
				name = fmt.Sprintf("Input #%d", h.Input.ID)
			}
			fmt.Println(headerStyle.Render(name))
			fmt.Println("  " + dimLabel(util.FirstLine(h.Input.Text, 76)))
			fmt.Println()
		}

		if historyTimeline {
			renderTimeline(history.Timeline(h))
			return nil
		}

		m := history.Build(h, historyModelFilter, historyPromptFilter)
		if m.NoCombinations() {
			fmt.Println("No combinations match the current filters.")
			return nil
		}
		renderMatrix(m)
		return nil
	},
}

// renderMatrix prints the grid with prompts across and models down. Each
// populated cell shows the latest result's quality, time, and a text
// preview; --full appends the pair's older results beneath the grid.
func renderMatrix(m history.Matrix) {
	header := pad("", historyCellWidth)
	for _, col := range m.Columns {
		label := col.Name
		if len(col.Versions) > 1 {
			label = fmt.Sprintf("%s (%d versions)", col.Name, len(col.Versions))
		}
		header += pad(label, historyCellWidth)
	}
	fmt.Println(matrixHeaderStyle.Render(header))

	for i, row := range m.Rows {
		line := pad(row.Name, historyCellWidth)
		for _, cell := range m.Cells[i] {
			line += pad(cellSummary(cell), historyCellWidth)
		}
		fmt.Println(matrixCellStyle.Render(line))
	}

	if historyFull {
		fmt.Println()
		for i := range m.Rows {
			for _, cell := range m.Cells[i] {
				if cell.Empty() || len(cell.History) < 2 {
					continue
				}
				pair := fmt.Sprintf("%s / %s", m.Rows[i].Name, columnName(m, cell.PromptID))
				fmt.Println(matrixHeaderStyle.Render(pair))
				for _, d := range cell.History {
					renderResult(d, "  ")
				}
				fmt.Println()
			}
		}
	}
}

func columnName(m history.Matrix, promptID int64) string {
	for _, col := range m.Columns {
		if col.PromptID == promptID {
			return col.Name
		}
	}
	return fmt.Sprintf("Prompt %d", promptID)
}

// cellSummary renders one cell on a single line.
func cellSummary(cell history.Cell) string {
	if cell.Empty() {
		return "—"
	}
	d := *cell.Latest
	summary := fmt.Sprintf("[%s] %s", export.QualityLabel(d.Evaluation), util.TruncateRunes(strings.TrimSpace(d.Text), 12))
	if len(cell.History) > 1 {
		summary += fmt.Sprintf(" (+%d)", len(cell.History)-1)
	}
	return summary
}

// renderTimeline prints results grouped by day, newest day first.
func renderTimeline(days []history.Day) {
	if len(days) == 0 {
		fmt.Println("No recorded outputs.")
		return
	}
	for _, day := range days {
		fmt.Println(matrixHeaderStyle.Render(day.Date))
		for _, d := range day.Results {
			renderResult(d, "  ")
		}
		fmt.Println()
	}
}

// pad fits text into a fixed-width column, truncating on overflow.
func pad(text string, width int) string {
	text = util.TruncateRunes(text, width-2)
	for len([]rune(text)) < width {
		text += " "
	}
	return text
}

func init() {
	historyCmd.Flags().Int64Var(&historyModelFilter, "model", 0, "show only this model's row")
	historyCmd.Flags().Int64Var(&historyPromptFilter, "prompt", 0, "show only this prompt's column")
	historyCmd.Flags().BoolVar(&historyTimeline, "timeline", false, "group results by day instead of the matrix")
	historyCmd.Flags().BoolVar(&historyFull, "full", false, "also print each pair's older results")
	rootCmd.AddCommand(historyCmd)
}
