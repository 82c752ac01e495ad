// cli/view.go
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/mfuller/evalview/internal/export"
	"github.com/mfuller/evalview/internal/results"
	"github.com/mfuller/evalview/internal/util"
)

var (
	inputStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	goodStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	badStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle   = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	matrixHdStyle = lipgloss.NewStyle().Bold(true)
)

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	switch m.state {
	case viewSetPicker, viewInputPicker, viewModelPicker, viewPromptPicker:
		var listModel list.Model
		switch m.state {
		case viewSetPicker:
			listModel = m.setList
		case viewInputPicker:
			listModel = m.inputList
		case viewModelPicker:
			listModel = m.modelList
		default:
			listModel = m.promptList
		}
		if m.isLoading {
			timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
			return fmt.Sprintf("\n  %s Fetching... %ss\n", m.spinner.View(), timer)
		}
		listView := listModel.View()
		if title := listModel.Title; title != "" && !strings.Contains(listView, title) {
			listView = fmt.Sprintf("%s\n\n%s", title, listView)
		}
		if m.status != "" {
			listView += "\n" + faintStyle.Render(m.status)
		}
		return lipgloss.NewStyle().Margin(1, 2).Render(listView)

	case viewRunning:
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		return fmt.Sprintf("\n  %s Running %d models x %d prompts... %ss\n",
			m.spinner.View(), len(m.sel.ModelIDs()), len(m.sel.PromptIDs()), timer)

	case viewResults:
		return m.resultsView()

	case viewHistory:
		return m.historyView()

	default:
		return "Unknown state"
	}
}

// resultsView renders the grid with the cursor, the status bar, and either
// the filter input or the key help.
func (m *model) resultsView() string {
	var builder strings.Builder

	header := statusStyle.Render(fmt.Sprintf("Results: %d inputs (%d visible)  sort: %s", len(m.rows), export.VisibleCount(m.rows), sortLabel(m.sortKey, m.sortAsc, m.sorted)))
	builder.WriteString(header + "\n\n")

	var body strings.Builder
	cellIdx := 0
	for _, row := range m.rows {
		if row.Hidden {
			continue
		}
		body.WriteString(inputStyle.Render(row.InputName) + "\n")
		body.WriteString("  " + faintStyle.Render(util.FirstLine(row.InputText, m.width-4)) + "\n")
		if len(row.Results) == 0 {
			body.WriteString("  (no results)\n\n")
			continue
		}
		for _, d := range row.Results {
			line := m.resultLine(d)
			if cellIdx == m.cursor {
				line = cursorStyle.Render(line)
			}
			body.WriteString(line + "\n")
			cellIdx++
		}
		body.WriteString("\n")
	}
	m.viewport.SetContent(body.String())
	builder.WriteString(m.viewport.View())

	if m.filtering {
		builder.WriteString("\n" + m.filterText.View())
	} else {
		builder.WriteString("\n" + faintStyle.Render(" (1/2/3 rate, f filter, s sort, o order, x export, h history, esc back)"))
	}
	if m.status != "" {
		builder.WriteString("\n" + faintStyle.Render(m.status))
	}
	return builder.String()
}

// resultLine renders one result on a single line: model/prompt, time,
// evaluation badge, and a text preview.
func (m *model) resultLine(d results.Display) string {
	badge := qualityBadge(d)
	preview := util.FirstLine(d.Text, util.Max(16, m.width-46))
	return fmt.Sprintf("  %s  %s %s",
		metaStyle.Render(fmt.Sprintf("%-34s %ss", d.ModelName+" / "+d.PromptLabel, d.ProcessingTime)),
		badge, preview)
}

// qualityBadge renders the evaluation state of one result.
func qualityBadge(d results.Display) string {
	if d.Evaluation == nil || !d.Evaluation.Quality.Valid() {
		return faintStyle.Render("[ not evaluated ]")
	}
	label := fmt.Sprintf("[ %s ]", d.Evaluation.Quality)
	switch d.Evaluation.Quality {
	case "good":
		return goodStyle.Render(label)
	case "ok":
		return okStyle.Render(label)
	default:
		return badStyle.Render(label)
	}
}

// historyView renders the model × prompt matrix for the selected input, or
// the focused pair's full history when one is open.
func (m *model) historyView() string {
	if m.historyCell != nil {
		return m.historyCellView()
	}

	var builder strings.Builder
	builder.WriteString(statusStyle.Render("History: "+m.historyTitle) + "\n\n")

	if m.historyMatrix.NoCombinations() {
		builder.WriteString("No recorded combinations for this input.\n")
		builder.WriteString("\n" + faintStyle.Render(" (esc back)"))
		return builder.String()
	}

	const cellWidth = 24
	header := padCell("", cellWidth)
	for _, col := range m.historyMatrix.Columns {
		label := col.Name
		if len(col.Versions) > 1 {
			label = fmt.Sprintf("%s (v%d..v%d)", col.Name, col.Versions[len(col.Versions)-1], col.Versions[0])
		}
		header += padCell(label, cellWidth)
	}
	builder.WriteString(matrixHdStyle.Render(header) + "\n")

	for i, row := range m.historyMatrix.Rows {
		line := padCell(row.Name, cellWidth)
		for j, cell := range m.historyMatrix.Cells[i] {
			var text string
			if cell.Empty() {
				text = padCell("—", cellWidth)
			} else {
				summary := fmt.Sprintf("%s %s", export.QualityLabel(cell.Latest.Evaluation), util.TruncateRunes(strings.TrimSpace(cell.Latest.Text), 10))
				if len(cell.History) > 1 {
					summary += fmt.Sprintf(" +%d", len(cell.History)-1)
				}
				text = padCell(summary, cellWidth)
			}
			if i == m.histRow && j == m.histCol {
				text = cursorStyle.Render(text)
			}
			line += text
		}
		builder.WriteString(line + "\n")
	}

	builder.WriteString("\n" + faintStyle.Render(" (arrows move, enter opens the pair, esc back)"))
	if m.status != "" {
		builder.WriteString("\n" + faintStyle.Render(m.status))
	}
	return builder.String()
}

// historyCellView renders every recorded output of one (model, prompt)
// pair, newest first.
func (m *model) historyCellView() string {
	var builder strings.Builder
	builder.WriteString(statusStyle.Render(fmt.Sprintf("History: %s, %s (%d outputs)", m.historyTitle, m.historyCellTitle, len(m.historyCell.History))) + "\n\n")

	var body strings.Builder
	for _, d := range m.historyCell.History {
		body.WriteString(inputStyle.Render(d.Timestamp()) + "  " + qualityBadge(d) + "  " + metaStyle.Render(d.PromptLabel+"  "+d.ProcessingTime+"s") + "\n")
		body.WriteString(util.WrapToWidth(strings.TrimSpace(d.Text), util.Max(20, m.width-4)) + "\n\n")
	}
	m.viewport.SetContent(body.String())
	builder.WriteString(m.viewport.View())

	builder.WriteString("\n" + faintStyle.Render(" (esc back to the matrix)"))
	return builder.String()
}

// sortLabel names the active ordering for the status bar.
func sortLabel(key export.SortKey, ascending, sorted bool) string {
	if !sorted {
		return "newest"
	}
	direction := "asc"
	if !ascending {
		direction = "desc"
	}
	return key.String() + " " + direction
}

// padCell fits text into a fixed-width matrix column.
func padCell(text string, width int) string {
	text = util.TruncateRunes(text, width-2)
	return text + strings.Repeat(" ", util.Max(0, width-len([]rune(text))))
}
