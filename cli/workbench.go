// cli/workbench.go
// Package cli provides the interactive evaluation workbench for evalview.
package cli

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/appconfig"
	"github.com/mfuller/evalview/internal/export"
	"github.com/mfuller/evalview/internal/history"
	"github.com/mfuller/evalview/internal/results"
	"github.com/mfuller/evalview/internal/selection"
)

// Config represents the shared application configuration for the workbench.
type Config = appconfig.Config

// backend is the slice of the API client the workbench uses. Tests swap in
// a stub; production passes *api.Client.
type backend interface {
	ListInputSets(ctx context.Context) ([]api.InputSet, error)
	GetInputSet(ctx context.Context, id int64) (api.InputSetDetail, error)
	ListModels(ctx context.Context) ([]api.Model, error)
	ListPrompts(ctx context.Context) ([]api.Prompt, error)
	ComparePrompts(ctx context.Context, inputIDs, promptIDs, modelIDs []int64, versionIDs map[int64]int64) ([]api.Bundle, error)
	CreateEvaluation(ctx context.Context, outputID int64, quality api.Quality, notes string) (api.Evaluation, error)
	InputHistory(ctx context.Context, inputID int64) (api.History, error)
}

// viewState represents the current view or screen of the workbench.
type viewState int

const (
	// viewSetPicker is the state where the user selects an input set.
	viewSetPicker viewState = iota
	// viewInputPicker is the state where the user narrows the run to
	// specific inputs; choosing none runs the whole set.
	viewInputPicker
	// viewModelPicker is the state where the user toggles models.
	viewModelPicker
	// viewPromptPicker is the state where the user toggles prompts.
	viewPromptPicker
	// viewRunning is the state while the combinations are processing.
	viewRunning
	// viewResults is the state where the user browses and evaluates results.
	viewResults
	// viewHistory is the state showing one input's model × prompt matrix.
	viewHistory
)

// cellRef addresses one visible result in the grid by row and result index.
type cellRef struct {
	row    int
	result int
}

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx     context.Context
	config  *Config
	backend backend
	state   viewState

	isLoading bool
	err       error
	status    string

	setList    list.Model
	inputList  list.Model
	modelList  list.Model
	promptList list.Model

	sel    *selection.State
	inputs []api.Input

	rows       []results.Row
	cells      []cellRef
	cursor     int
	sortKey    export.SortKey
	sortAsc    bool
	sorted     bool
	filtering  bool
	filterText textarea.Model
	evaluators map[int64]*results.Evaluator

	historyMatrix    history.Matrix
	historyTitle     string
	histRow, histCol int
	historyCell      *history.Cell
	historyCellTitle string

	viewport         viewport.Model
	spinner          spinner.Model
	width, height    int
	requestStartTime time.Time
}

// initialModel creates and initializes a new model with default values.
func initialModel(cfg *Config, b backend) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Filter inputs..."
	ta.Prompt = "Filter: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	setList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	setList.Title = "Select an Input Set"

	inputList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	inputList.Title = "Narrow to Specific Inputs (space), or continue for all (enter)"

	modelList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	modelList.Title = "Toggle Models (space), then continue (enter)"

	promptList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	promptList.Title = "Toggle Prompts (space), then run (enter)"

	return &model{
		ctx:        context.Background(),
		config:     cfg,
		backend:    b,
		state:      viewSetPicker,
		spinner:    s,
		filterText: ta,
		setList:    setList,
		inputList:  inputList,
		modelList:  modelList,
		promptList: promptList,
		sel:        selection.New(),
		sortKey:    export.SortByInput,
		sortAsc:    true,
		evaluators: map[int64]*results.Evaluator{},
		viewport:   viewport.New(100, 5),
	}
}

// item represents a selectable item in a Bubble Tea list.
type item struct {
	id      int64
	title   string
	desc    string
	checked bool
}

// Title returns the title of the list item.
func (i item) Title() string {
	if i.checked {
		return "[x] " + i.title
	}
	return i.title
}

// Description returns the description of the list item.
func (i item) Description() string { return i.desc }

// FilterValue returns the title of the item, used for filtering.
func (i item) FilterValue() string { return i.title }

// StartWorkbench initializes and runs the interactive evaluation workbench.
func StartWorkbench(cfg *appconfig.Config) error {
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	f, err := tea.LogToFile(cfg.LogFilePath(), "debug")
	if err != nil {
		log.Fatalf("could not open log file: %v", err)
	}
	defer f.Close()

	m := initialModel(cfg, api.New(cfg))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
