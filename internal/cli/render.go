// internal/cli/render.go
package evalview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mfuller/evalview/internal/export"
	"github.com/mfuller/evalview/internal/results"
	"github.com/mfuller/evalview/internal/util"
)

var (
	inputTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	resultMetaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// renderRows prints a normalized result set, one block per input, skipping
// rows the active filter hides.
func renderRows(rows []results.Row) {
	for _, row := range rows {
		if row.Hidden {
			continue
		}
		renderRow(row)
	}
}

func renderRow(row results.Row) {
	fmt.Println(inputTitleStyle.Render(row.InputName))
	fmt.Println("  " + dimLabel(util.FirstLine(row.InputText, 76)))
	if len(row.Results) == 0 {
		fmt.Println("  (no results)")
		fmt.Println()
		return
	}
	for _, d := range row.Results {
		renderResult(d, "  ")
	}
	fmt.Println()
}

// renderResult prints one result with its model/prompt header, output text,
// and evaluation state.
func renderResult(d results.Display, indent string) {
	meta := fmt.Sprintf("%s / %s  %ss  %s", d.ModelName, d.PromptLabel, d.ProcessingTime, d.Timestamp())
	fmt.Println(indent + resultMetaStyle.Render(meta))
	wrapped := util.WrapToWidth(d.Text, 72)
	fmt.Println(indentBlock(wrapped, indent+"  "))

	label := export.QualityLabel(d.Evaluation)
	if d.Evaluation != nil && d.Evaluation.Quality.Valid() {
		label = qualityColored(d.Evaluation.Quality)
		if strings.TrimSpace(d.Evaluation.Notes) != "" {
			label += "  " + dimLabel(d.Evaluation.Notes)
		}
	}
	fmt.Printf("%sevaluation: %s  (output %d)\n", indent, label, d.OutputID)
}
