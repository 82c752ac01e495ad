// cli/commands.go
package cli

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/export"
	"github.com/mfuller/evalview/internal/history"
	"github.com/mfuller/evalview/internal/logging"
	"github.com/mfuller/evalview/internal/results"
	"github.com/mfuller/evalview/internal/util"
)

// setsReadyMsg is a message sent when the input sets have been fetched.
type setsReadyMsg struct{ sets []list.Item }

// catalogReadyMsg is a message sent when models and prompts have been fetched
// along with the chosen set's inputs.
type catalogReadyMsg struct {
	models     []list.Item
	prompts    []list.Item
	inputs     []api.Input
	inputItems []list.Item
}

// runDoneMsg is a message sent when a batch run has finished.
type runDoneMsg struct{ rows []results.Row }

// evalDoneMsg is a message sent when an evaluation submission settled.
type evalDoneMsg struct {
	outputID int64
	err      error
}

// historyReadyMsg is a message sent when an input's history matrix is built.
type historyReadyMsg struct {
	title  string
	matrix history.Matrix
}

// exportDoneMsg is a message sent when the CSV export finished.
type exportDoneMsg struct {
	path string
	err  error
}

// loadErr is a message sent when any fetch fails.
type loadErr struct{ error }

// tickMsg is a message sent at regular intervals, used for timed updates.
type tickMsg time.Time

// loadSetsCmd fetches the input sets, newest first.
func loadSetsCmd(b backend) tea.Cmd {
	return func() tea.Msg {
		sets, err := b.ListInputSets(context.Background())
		if err != nil {
			return loadErr{error: err}
		}
		sort.Slice(sets, func(i, j int) bool { return sets[i].ID > sets[j].ID })

		items := make([]list.Item, len(sets))
		for i, s := range sets {
			items[i] = item{id: s.ID, title: s.Name, desc: s.Description}
		}
		return setsReadyMsg{sets: items}
	}
}

// loadCatalogCmd fetches the models, prompts, and the chosen set's inputs in
// one sweep so the pickers open fully populated.
func loadCatalogCmd(b backend, setID int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		models, err := b.ListModels(ctx)
		if err != nil {
			return loadErr{error: err}
		}
		prompts, err := b.ListPrompts(ctx)
		if err != nil {
			return loadErr{error: err}
		}
		detail, err := b.GetInputSet(ctx, setID)
		if err != nil {
			return loadErr{error: err}
		}

		modelItems := make([]list.Item, len(models))
		for i, m := range models {
			modelItems[i] = item{id: m.ID, title: m.Name, desc: m.Description}
		}
		promptItems := make([]list.Item, len(prompts))
		for i, p := range prompts {
			desc := p.Description
			if desc == "" {
				desc = util.FirstLine(p.Template, 48)
			}
			promptItems[i] = item{id: p.ID, title: p.Name, desc: desc}
		}
		inputItems := make([]list.Item, len(detail.Inputs))
		for i, in := range detail.Inputs {
			inputItems[i] = item{id: in.ID, title: in.Name, desc: util.FirstLine(in.Text, 48)}
		}
		return catalogReadyMsg{models: modelItems, prompts: promptItems, inputs: detail.Inputs, inputItems: inputItems}
	}
}

// runBatchCmd runs every selected combination over the set's inputs and
// returns the normalized grid, newest input first.
func runBatchCmd(b backend, inputIDs, promptIDs, modelIDs []int64, inputs []api.Input) tea.Cmd {
	return func() tea.Msg {
		logging.LogEvent("workbench run: %d inputs x %d models x %d prompts", len(inputIDs), len(modelIDs), len(promptIDs))

		bundles, err := b.ComparePrompts(context.Background(), inputIDs, promptIDs, modelIDs, nil)
		if err != nil {
			return loadErr{error: err}
		}
		results.Augment(bundles, inputs)
		rows := results.NormalizeBundles(bundles)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].InputID > rows[j].InputID })
		return runDoneMsg{rows: rows}
	}
}

// submitEvalCmd persists the judgment already claimed with Begin; the
// evalDoneMsg handler settles the evaluator with the outcome.
func submitEvalCmd(ev *results.Evaluator, outputID int64) tea.Cmd {
	return func() tea.Msg {
		return evalDoneMsg{outputID: outputID, err: ev.Persist(context.Background())}
	}
}

// loadHistoryCmd fetches one input's history and builds the full matrix.
func loadHistoryCmd(b backend, inputID int64, title string) tea.Cmd {
	return func() tea.Msg {
		h, err := b.InputHistory(context.Background(), inputID)
		if err != nil {
			return loadErr{error: err}
		}
		return historyReadyMsg{title: title, matrix: history.Build(h, 0, 0)}
	}
}

// exportCmd writes the visible rows to the configured CSV path.
func exportCmd(rows []results.Row, path string) tea.Cmd {
	return func() tea.Msg {
		visible := make([]results.Row, 0, len(rows))
		for _, r := range rows {
			if !r.Hidden {
				visible = append(visible, r)
			}
		}
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, visible); err != nil {
			return exportDoneMsg{path: path, err: fmt.Errorf("serialize CSV: %w", err)}
		}
		if err := util.WriteFile(path, buf.Bytes()); err != nil {
			return exportDoneMsg{path: path, err: fmt.Errorf("write CSV file: %w", err)}
		}
		return exportDoneMsg{path: path}
	}
}

// tickCmd creates a command that sends a tickMsg at a regular interval.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
