// cli/update.go
package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/export"
	"github.com/mfuller/evalview/internal/results"
	"github.com/mfuller/evalview/internal/selection"
)

// Init initializes the Bubble Tea model and kicks off the input set fetch.
func (m *model) Init() tea.Cmd {
	m.isLoading = true
	m.requestStartTime = time.Now()
	return tea.Batch(m.spinner.Tick, loadSetsCmd(m.backend), tickCmd())
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			switch m.state {
			case viewInputPicker:
				m.state = viewSetPicker
			case viewModelPicker:
				m.state = viewInputPicker
			case viewPromptPicker:
				m.state = viewModelPicker
			case viewResults:
				m.state = viewPromptPicker
			case viewHistory:
				if m.historyCell != nil {
					m.historyCell = nil
					return m, nil
				}
				m.state = viewResults
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.setList.SetSize(msg.Width-2, msg.Height-4)
		m.inputList.SetSize(msg.Width-2, msg.Height-4)
		m.modelList.SetSize(msg.Width-2, msg.Height-4)
		m.promptList.SetSize(msg.Width-2, msg.Height-4)
		m.filterText.SetWidth(msg.Width - 3)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6

	case setsReadyMsg:
		m.isLoading = false
		m.setList.SetItems(msg.sets)
		return m, nil

	case catalogReadyMsg:
		m.isLoading = false
		// Rebuild the selections from what the backend still offers: ids
		// that disappeared between fetches drop out of the run.
		m.sel.Replace(selection.KindModel, checkedItems(msg.models, m.sel, selection.KindModel))
		m.sel.Replace(selection.KindPrompt, checkedItems(msg.prompts, m.sel, selection.KindPrompt))
		m.modelList.SetItems(restoreChecks(msg.models, m.sel, selection.KindModel))
		m.promptList.SetItems(restoreChecks(msg.prompts, m.sel, selection.KindPrompt))
		m.inputs = msg.inputs
		m.pruneChosenInputs()
		m.inputList.SetItems(restoreChosen(msg.inputItems, m.sel))
		m.state = viewInputPicker
		return m, nil

	case runDoneMsg:
		m.isLoading = false
		m.rows = msg.rows
		m.evaluators = map[int64]*results.Evaluator{}
		m.cursor = 0
		m.sorted = false
		m.rebuildCells()
		m.state = viewResults
		return m, nil

	case evalDoneMsg:
		if ev, ok := m.evaluators[msg.outputID]; ok {
			ev.Settle(msg.err)
		}
		if msg.err != nil {
			m.status = "evaluation failed: " + msg.err.Error()
		} else {
			m.status = "evaluation saved"
			m.applyEvaluation(msg.outputID)
		}
		return m, nil

	case historyReadyMsg:
		m.isLoading = false
		m.historyMatrix = msg.matrix
		m.historyTitle = msg.title
		m.histRow, m.histCol = 0, 0
		m.historyCell = nil
		m.state = viewHistory
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported to " + msg.path
		}
		return m, nil

	case loadErr:
		m.isLoading = false
		m.err = msg.error
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	switch m.state {
	case viewSetPicker:
		m.setList, cmd = m.setList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selected, ok := m.setList.SelectedItem().(item); ok {
				m.sel.SetInputSet(selected.id)
				m.isLoading = true
				m.err = nil
				m.requestStartTime = time.Now()
				cmds = append(cmds, m.spinner.Tick, loadCatalogCmd(m.backend, selected.id), tickCmd())
			}
		}

	case viewInputPicker:
		m.inputList, cmd = m.inputList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case " ":
				m.toggleChosenInput()
			case "enter":
				m.state = viewModelPicker
			}
		}

	case viewModelPicker:
		m.modelList, cmd = m.modelList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case " ":
				toggleSelected(&m.modelList, m.sel, selection.KindModel)
			case "enter":
				if len(m.sel.ModelIDs()) > 0 {
					m.state = viewPromptPicker
				} else {
					m.status = "select at least one model"
				}
			}
		}

	case viewPromptPicker:
		m.promptList, cmd = m.promptList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case " ":
				toggleSelected(&m.promptList, m.sel, selection.KindPrompt)
			case "enter":
				if !m.sel.CanRun() {
					m.status = "select at least one prompt"
					break
				}
				m.state = viewRunning
				m.isLoading = true
				m.err = nil
				m.status = ""
				m.requestStartTime = time.Now()
				cmds = append(cmds, m.spinner.Tick,
					runBatchCmd(m.backend, m.runInputIDs(), m.sel.PromptIDs(), m.sel.ModelIDs(), m.inputs),
					tickCmd())
			}
		}

	case viewResults:
		cmds = append(cmds, m.updateResults(msg))

	case viewHistory:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok {
			m.updateHistory(msg)
		}
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateResults handles keys in the results grid, including the filter
// entry mode.
func (m *model) updateResults(msg tea.Msg) tea.Cmd {
	if m.filtering {
		var cmd tea.Cmd
		m.filterText, cmd = m.filterText.Update(msg)
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "enter":
				m.filtering = false
				m.filterText.Blur()
				export.ApplyFilter(m.rows, strings.TrimSpace(m.filterText.Value()))
				m.cursor = 0
				m.rebuildCells()
			case "esc":
				m.filtering = false
				m.filterText.Blur()
				m.filterText.Reset()
				export.ApplyFilter(m.rows, "")
				m.cursor = 0
				m.rebuildCells()
			}
		}
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.cells)-1 {
			m.cursor++
		}
	case "1", "2", "3":
		return m.rateCurrent(keyMsg.String())
	case "f":
		m.filtering = true
		m.filterText.Focus()
	case "s":
		m.sortKey = m.sortKey.Next()
		m.sorted = true
		export.Sort(m.rows, m.sortKey, m.sortAsc)
		m.cursor = 0
		m.rebuildCells()
	case "o":
		m.sortAsc = !m.sortAsc
		if m.sorted {
			export.Sort(m.rows, m.sortKey, m.sortAsc)
			m.cursor = 0
			m.rebuildCells()
		}
	case "x":
		return exportCmd(m.rows, m.config.ExportFilePath())
	case "h":
		if d, ok := m.currentDisplay(); ok {
			m.isLoading = true
			m.requestStartTime = time.Now()
			return tea.Batch(m.spinner.Tick,
				loadHistoryCmd(m.backend, d.InputID, d.InputName), tickCmd())
		}
	}
	return nil
}

// rateCurrent submits a quality judgment for the result under the cursor.
// Results with no output id cannot be evaluated. The in-flight slot is
// claimed here, on the update loop, so a second keypress before the prior
// submission settles never reaches the backend.
func (m *model) rateCurrent(key string) tea.Cmd {
	d, ok := m.currentDisplay()
	if !ok {
		return nil
	}
	if !d.CanEvaluate() {
		m.status = "this result has no output id and cannot be evaluated"
		return nil
	}

	ev, exists := m.evaluators[d.OutputID]
	if !exists {
		ev = results.NewEvaluator(*d, m.submitFunc())
		m.evaluators[d.OutputID] = ev
	}

	quality := map[string]api.Quality{"1": api.QualityBad, "2": api.QualityOK, "3": api.QualityGood}[key]
	if err := ev.Begin(quality, ev.Notes()); err != nil {
		if errors.Is(err, results.ErrSubmitting) {
			m.status = "evaluation already in progress"
		} else {
			m.status = err.Error()
		}
		return nil
	}
	m.status = "saving evaluation..."
	return submitEvalCmd(ev, d.OutputID)
}

// submitFunc adapts the backend to the evaluator's submission contract.
func (m *model) submitFunc() results.SubmitFunc {
	return func(ctx context.Context, outputID int64, quality api.Quality, notes string) error {
		_, err := m.backend.CreateEvaluation(ctx, outputID, quality, notes)
		return err
	}
}

// applyEvaluation reflects a settled evaluation back into the grid rows.
func (m *model) applyEvaluation(outputID int64) {
	ev, ok := m.evaluators[outputID]
	if !ok {
		return
	}
	quality, selected := ev.Selected()
	if !selected {
		return
	}
	for i := range m.rows {
		for j := range m.rows[i].Results {
			if m.rows[i].Results[j].OutputID == outputID {
				m.rows[i].Results[j].Evaluation = &api.Evaluation{
					OutputID: outputID,
					Quality:  quality,
					Notes:    ev.Notes(),
				}
			}
		}
	}
}

// currentDisplay returns the result under the cursor.
func (m *model) currentDisplay() (*results.Display, bool) {
	if m.cursor < 0 || m.cursor >= len(m.cells) {
		return nil, false
	}
	ref := m.cells[m.cursor]
	return &m.rows[ref.row].Results[ref.result], true
}

// rebuildCells reindexes the visible results after any reorder or filter.
func (m *model) rebuildCells() {
	m.cells = m.cells[:0]
	for i, row := range m.rows {
		if row.Hidden {
			continue
		}
		for j := range row.Results {
			m.cells = append(m.cells, cellRef{row: i, result: j})
		}
	}
	if m.cursor >= len(m.cells) {
		m.cursor = len(m.cells) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// updateHistory moves the cell focus across the matrix and opens the
// focused pair's full history on enter.
func (m *model) updateHistory(msg tea.KeyMsg) {
	if m.historyCell != nil || m.historyMatrix.NoCombinations() {
		return
	}
	switch msg.String() {
	case "up", "k":
		if m.histRow > 0 {
			m.histRow--
		}
	case "down", "j":
		if m.histRow < len(m.historyMatrix.Rows)-1 {
			m.histRow++
		}
	case "left", "h":
		if m.histCol > 0 {
			m.histCol--
		}
	case "right", "l":
		if m.histCol < len(m.historyMatrix.Columns)-1 {
			m.histCol++
		}
	case "enter":
		cell := m.historyMatrix.Cells[m.histRow][m.histCol]
		if cell.Empty() {
			m.status = "no recorded outputs for this pair"
			return
		}
		m.historyCell = &cell
		m.historyCellTitle = m.historyMatrix.Rows[m.histRow].Name + " / " + m.historyMatrix.Columns[m.histCol].Name
	}
}

// toggleChosenInput flips the highlighted input in and out of the specific
// subset. The mode follows the subset: any chosen input narrows the run,
// none chosen runs the whole set.
func (m *model) toggleChosenInput() {
	selected, ok := m.inputList.SelectedItem().(item)
	if !ok {
		return
	}
	if m.sel.InputChosen(selected.id) {
		m.sel.UnchooseInput(selected.id)
		selected.checked = false
	} else {
		m.sel.ChooseInput(selected.id)
		selected.checked = true
	}
	m.inputList.SetItem(m.inputList.Index(), selected)
	if len(m.sel.ChosenInputIDs()) > 0 {
		m.sel.SetInputMode(selection.ModeSpecific)
	} else {
		m.sel.SetInputMode(selection.ModeAll)
	}
}

// pruneChosenInputs drops chosen inputs the refetched set no longer
// contains, falling back to the whole set when none survive.
func (m *model) pruneChosenInputs() {
	keep := map[int64]struct{}{}
	for _, in := range m.inputs {
		keep[in.ID] = struct{}{}
	}
	for _, id := range m.sel.ChosenInputIDs() {
		if _, ok := keep[id]; !ok {
			m.sel.UnchooseInput(id)
		}
	}
	if len(m.sel.ChosenInputIDs()) == 0 {
		m.sel.SetInputMode(selection.ModeAll)
	}
}

// restoreChosen re-marks previously chosen inputs after a refetch.
func restoreChosen(items []list.Item, sel *selection.State) []list.Item {
	for i, it := range items {
		if entry, ok := it.(item); ok && sel.InputChosen(entry.id) {
			entry.checked = true
			items[i] = entry
		}
	}
	return items
}

// runInputIDs returns the ids the run covers: the chosen subset, or every
// input in the set.
func (m *model) runInputIDs() []int64 {
	if m.sel.Mode() == selection.ModeSpecific {
		return m.sel.ChosenInputIDs()
	}
	ids := make([]int64, 0, len(m.inputs))
	for _, in := range m.inputs {
		ids = append(ids, in.ID)
	}
	return ids
}

// toggleSelected flips the checkbox of the highlighted item and mirrors the
// change into the selection state.
func toggleSelected(l *list.Model, sel *selection.State, kind selection.Kind) {
	selected, ok := l.SelectedItem().(item)
	if !ok {
		return
	}
	if sel.Selected(kind, selected.id) {
		sel.Deselect(kind, selected.id)
		selected.checked = false
	} else {
		sel.Select(kind, selected.id, selected.title)
		selected.checked = true
	}
	l.SetItem(l.Index(), selected)
}

// checkedItems returns the fetched items that are currently selected, as a
// snapshot for rebuilding the selection state.
func checkedItems(items []list.Item, sel *selection.State, kind selection.Kind) []selection.Item {
	var out []selection.Item
	for _, it := range items {
		if entry, ok := it.(item); ok && sel.Selected(kind, entry.id) {
			out = append(out, selection.Item{ID: entry.id, Name: entry.title})
		}
	}
	return out
}

// restoreChecks re-marks previously selected items after a refetch.
func restoreChecks(items []list.Item, sel *selection.State, kind selection.Kind) []list.Item {
	for i, it := range items {
		if entry, ok := it.(item); ok && sel.Selected(kind, entry.id) {
			entry.checked = true
			items[i] = entry
		}
	}
	return items
}
