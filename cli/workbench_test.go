// cli/workbench_test.go
package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/selection"
)

// stubBackend is a canned backend for driving the workbench in tests.
type stubBackend struct {
	sets        []api.InputSet
	setDetail   api.InputSetDetail
	models      []api.Model
	prompts     []api.Prompt
	bundles     []api.Bundle
	history     api.History
	evalErr     error
	evaluations []api.Evaluation
	ranInputIDs []int64
}

func (s *stubBackend) ListInputSets(ctx context.Context) ([]api.InputSet, error) {
	return s.sets, nil
}

func (s *stubBackend) GetInputSet(ctx context.Context, id int64) (api.InputSetDetail, error) {
	return s.setDetail, nil
}

func (s *stubBackend) ListModels(ctx context.Context) ([]api.Model, error) {
	return s.models, nil
}

func (s *stubBackend) ListPrompts(ctx context.Context) ([]api.Prompt, error) {
	return s.prompts, nil
}

func (s *stubBackend) ComparePrompts(ctx context.Context, inputIDs, promptIDs, modelIDs []int64, versionIDs map[int64]int64) ([]api.Bundle, error) {
	s.ranInputIDs = inputIDs
	return s.bundles, nil
}

func (s *stubBackend) CreateEvaluation(ctx context.Context, outputID int64, quality api.Quality, notes string) (api.Evaluation, error) {
	if s.evalErr != nil {
		return api.Evaluation{}, s.evalErr
	}
	eval := api.Evaluation{OutputID: outputID, Quality: quality, Notes: notes}
	s.evaluations = append(s.evaluations, eval)
	return eval, nil
}

func (s *stubBackend) InputHistory(ctx context.Context, inputID int64) (api.History, error) {
	return s.history, nil
}

func testBackend() *stubBackend {
	input := api.Input{ID: 1, Name: "Article", Text: "Body text."}
	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	seconds := 1.5
	entry := api.ResultEntry{
		OutputID:       11,
		ModelID:        5,
		PromptID:       7,
		ModelName:      "llama3.2:3b",
		PromptName:     "Basic Summary",
		Text:           "A summary.",
		ProcessingTime: &seconds,
		CreatedAt:      &created,
	}
	return &stubBackend{
		sets:      []api.InputSet{{ID: 3, Name: "News"}},
		setDetail: api.InputSetDetail{InputSet: api.InputSet{ID: 3, Name: "News"}, Inputs: []api.Input{input}},
		models:    []api.Model{{ID: 5, Name: "llama3.2:3b"}},
		prompts:   []api.Prompt{{ID: 7, Name: "Basic Summary"}},
		bundles:   []api.Bundle{{InputID: 1, Input: &input, Results: []api.ResultEntry{entry}}},
		history:   api.History{Input: &input, Results: []api.ResultEntry{entry}},
	}
}

// drive runs one command synchronously and feeds its message back into the
// model, the way the Bubble Tea runtime would.
func drive(t *testing.T, m *model, cmd tea.Cmd) *model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if msg == nil {
		return m
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drive(t, m, c)
		}
		return m
	}
	newModel, _ := m.Update(msg)
	return newModel.(*model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press updates the model with one key and drains the resulting commands.
func press(t *testing.T, m *model, s string) *model {
	t.Helper()
	newModel, cmd := m.Update(key(s))
	m = newModel.(*model)
	return drive(t, m, cmd)
}

// newTestModel builds a model sized for rendering with the catalog loaded
// and an input set already chosen.
func newTestModel(t *testing.T, b *stubBackend) *model {
	t.Helper()
	m := initialModel(&Config{}, b)

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = newModel.(*model)
	m = drive(t, m, loadSetsCmd(b))
	return m
}

// TestUpdate tests the Update function of the Bubble Tea model. It verifies
// that the model correctly handles quit keys and window size changes, and
// that the set picker drives the full flow into the results grid.
func TestUpdate(t *testing.T) {
	b := testBackend()
	m := newTestModel(t, b)

	if m.state != viewSetPicker {
		t.Errorf("Expected initial state to be viewSetPicker, got %v", m.state)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}

	if m.width != 100 || m.height != 40 {
		t.Errorf("Expected width 100 and height 40, got %d and %d", m.width, m.height)
	}

	// Choose the set, keep all inputs, toggle the model and prompt, run.
	m = press(t, m, "enter")
	if m.state != viewInputPicker {
		t.Fatalf("Expected viewInputPicker after choosing a set, got %v", m.state)
	}

	m = press(t, m, "enter")
	if m.state != viewModelPicker {
		t.Fatalf("Expected viewModelPicker after the input picker, got %v", m.state)
	}

	m = press(t, m, " ")
	m = press(t, m, "enter")
	if m.state != viewPromptPicker {
		t.Fatalf("Expected viewPromptPicker after selecting a model, got %v", m.state)
	}

	m = press(t, m, " ")
	m = press(t, m, "enter")
	if m.state != viewResults {
		t.Fatalf("Expected viewResults after the run, got %v", m.state)
	}
	if len(m.rows) != 1 || len(m.rows[0].Results) != 1 {
		t.Fatalf("Expected one normalized row with one result, got %+v", m.rows)
	}
}

// TestUpdateRequiresSelection verifies enter does not advance the pickers
// until at least one model and one prompt are toggled.
func TestUpdateRequiresSelection(t *testing.T) {
	b := testBackend()
	m := newTestModel(t, b)
	m = press(t, m, "enter")
	m = press(t, m, "enter")

	m = press(t, m, "enter")
	if m.state != viewModelPicker {
		t.Fatalf("Expected to stay in viewModelPicker without a model, got %v", m.state)
	}

	m = press(t, m, " ")
	m = press(t, m, "enter")
	m = press(t, m, "enter")
	if m.state != viewPromptPicker {
		t.Fatalf("Expected to stay in viewPromptPicker without a prompt, got %v", m.state)
	}
}

// TestEvaluateFromGrid verifies rating the highlighted result persists it
// and reflects the judgment back into the row.
func TestEvaluateFromGrid(t *testing.T) {
	b := testBackend()
	m := newTestModel(t, b)
	m = press(t, m, "enter")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")

	m = press(t, m, "3")

	if len(b.evaluations) != 1 {
		t.Fatalf("Expected one stored evaluation, got %d", len(b.evaluations))
	}
	if b.evaluations[0].Quality != api.QualityGood || b.evaluations[0].OutputID != 11 {
		t.Fatalf("Unexpected evaluation %+v", b.evaluations[0])
	}
	eval := m.rows[0].Results[0].Evaluation
	if eval == nil || eval.Quality != api.QualityGood {
		t.Fatalf("Expected the grid row to carry the judgment, got %+v", eval)
	}
}

// TestEvaluateSecondKeypressBlocked verifies a rating keypress while the
// prior submission has not settled is refused on the update loop and never
// reaches the backend, and that rating works again once it settles.
func TestEvaluateSecondKeypressBlocked(t *testing.T) {
	b := testBackend()
	m := newTestModel(t, b)
	m = press(t, m, "enter")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")

	// Claim the in-flight slot without settling the submission yet.
	newModel, first := m.Update(key("3"))
	m = newModel.(*model)
	if first == nil {
		t.Fatal("Expected a submission command for the first keypress")
	}

	newModel, second := m.Update(key("2"))
	m = newModel.(*model)
	if second != nil {
		t.Fatal("Expected the second keypress to be refused while submitting")
	}
	if !strings.Contains(m.status, "in progress") {
		t.Fatalf("Expected an in-progress status, got %q", m.status)
	}
	if len(b.evaluations) != 0 {
		t.Fatalf("Expected no evaluation before settling, got %d", len(b.evaluations))
	}

	m = drive(t, m, first)
	if len(b.evaluations) != 1 || b.evaluations[0].Quality != api.QualityGood {
		t.Fatalf("Expected the first judgment to win, got %+v", b.evaluations)
	}

	// Settled: the next rating is accepted again.
	m = press(t, m, "2")
	if len(b.evaluations) != 2 || b.evaluations[1].Quality != api.QualityOK {
		t.Fatalf("Expected a second evaluation after settling, got %+v", b.evaluations)
	}
}

// TestEvaluateRollback verifies a rejected submission leaves the grid
// unevaluated and surfaces the failure in the status line.
func TestEvaluateRollback(t *testing.T) {
	b := testBackend()
	b.evalErr = errors.New("backend down")
	m := newTestModel(t, b)
	m = press(t, m, "enter")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")

	m = press(t, m, "1")

	if eval := m.rows[0].Results[0].Evaluation; eval != nil {
		t.Fatalf("Expected no evaluation after rollback, got %+v", eval)
	}
	if !strings.Contains(m.status, "failed") {
		t.Fatalf("Expected failure status, got %q", m.status)
	}
}

// TestSpecificInputSelection verifies choosing inputs in the picker narrows
// the run to the chosen subset, and that unchoosing falls back to the
// whole set.
func TestSpecificInputSelection(t *testing.T) {
	b := testBackend()
	b.setDetail.Inputs = append(b.setDetail.Inputs, api.Input{ID: 2, Name: "Memo", Text: "Voice memo."})

	m := newTestModel(t, b)
	m = press(t, m, "enter")
	if m.state != viewInputPicker {
		t.Fatalf("Expected viewInputPicker after choosing a set, got %v", m.state)
	}

	m = press(t, m, " ")
	if m.sel.Mode() != selection.ModeSpecific {
		t.Fatalf("Expected ModeSpecific after choosing an input, got %v", m.sel.Mode())
	}
	m = press(t, m, " ")
	if m.sel.Mode() != selection.ModeAll {
		t.Fatalf("Expected ModeAll after unchoosing, got %v", m.sel.Mode())
	}
	m = press(t, m, " ")

	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")

	if len(b.ranInputIDs) != 1 || b.ranInputIDs[0] != 1 {
		t.Fatalf("Expected the run to cover only the chosen input, got %v", b.ranInputIDs)
	}
}

// TestHistoryPairDetail verifies enter on a focused matrix cell opens the
// pair's full history, newest first, and esc steps back to the matrix and
// then to the grid.
func TestHistoryPairDetail(t *testing.T) {
	b := testBackend()
	older := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	prior := b.history.Results[0]
	prior.OutputID = 10
	prior.Text = "An earlier summary."
	prior.CreatedAt = &older
	b.history.Results = append(b.history.Results, prior)

	m := newTestModel(t, b)
	m = press(t, m, "enter")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")

	m = press(t, m, "h")
	if m.state != viewHistory {
		t.Fatalf("Expected viewHistory, got %v", m.state)
	}

	m = press(t, m, "enter")
	if m.historyCell == nil {
		t.Fatal("Expected the pair history to open on enter")
	}
	if len(m.historyCell.History) != 2 {
		t.Fatalf("Expected both outputs in the pair history, got %d", len(m.historyCell.History))
	}
	if m.historyCell.History[0].OutputID != 11 {
		t.Fatalf("Expected the newest output first, got %d", m.historyCell.History[0].OutputID)
	}
	if view := m.View(); !strings.Contains(view, "An earlier summary.") {
		t.Fatalf("Expected the older output in the detail view, got %q", view)
	}

	m = press(t, m, "esc")
	if m.state != viewHistory || m.historyCell != nil {
		t.Fatalf("Expected esc to return to the matrix, got state %v", m.state)
	}
	m = press(t, m, "esc")
	if m.state != viewResults {
		t.Fatalf("Expected esc to return to viewResults, got %v", m.state)
	}
}

// TestHistoryFromGrid verifies 'h' opens the matrix for the highlighted
// input and esc returns to the grid.
func TestHistoryFromGrid(t *testing.T) {
	b := testBackend()
	m := newTestModel(t, b)
	m = press(t, m, "enter")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")

	m = press(t, m, "h")
	if m.state != viewHistory {
		t.Fatalf("Expected viewHistory, got %v", m.state)
	}
	if m.historyMatrix.NoCombinations() {
		t.Fatal("Expected a populated history matrix")
	}

	m = press(t, m, "esc")
	if m.state != viewResults {
		t.Fatalf("Expected esc to return to viewResults, got %v", m.state)
	}
}

// TestView tests the View function of the Bubble Tea model. It checks that
// the correct UI is rendered for the initial loading screen, error messages,
// the set picker, and the results grid.
func TestView(t *testing.T) {
	b := testBackend()
	m := initialModel(&Config{}, b)

	view := m.View()
	if view != "Initializing..." {
		t.Errorf("Expected view to be 'Initializing...', got '%s'", view)
	}

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = newModel.(*model)

	m.err = errors.New("test error")
	view = m.View()
	if !strings.Contains(view, "Error") {
		t.Errorf("Expected view to contain 'Error', got '%s'", view)
	}
	m.err = nil

	m = drive(t, m, loadSetsCmd(b))
	view = m.View()
	if !strings.Contains(view, "Select an Input Set") {
		t.Errorf("Expected view to contain the set picker title, got '%s'", view)
	}

	m = press(t, m, "enter")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")
	m = press(t, m, " ")
	m = press(t, m, "enter")

	view = m.View()
	if !strings.Contains(view, "Article") {
		t.Errorf("Expected results view to contain the input name, got '%s'", view)
	}
	if !strings.Contains(view, "not evaluated") {
		t.Errorf("Expected results view to show the evaluation state, got '%s'", view)
	}
}
