// internal/selection/selection.go
// Package selection tracks the working set of models, prompts, and inputs for
// the next run. Selection flows one way: UI controls report changes into the
// State; nothing reads control state back out of the UI.
package selection

// Kind distinguishes the two keyed selection sets.
type Kind int

const (
	KindModel Kind = iota
	KindPrompt
)

// InputMode governs which inputs of the designated input set a run covers.
type InputMode int

const (
	// ModeAll uses every input in the designated input set.
	ModeAll InputMode = iota
	// ModeSpecific uses only the explicitly chosen inputs.
	ModeSpecific
)

// Item is one selected entry.
type Item struct {
	ID   int64
	Name string
}

// State holds the current selections. Sets are keyed by id, so duplicates are
// structurally impossible and ordering carries no meaning. The zero value is
// ready to use: nothing selected, ModeAll, no input set designated.
type State struct {
	models     map[int64]string
	prompts    map[int64]string
	inputSetID int64
	mode       InputMode
	inputs     map[int64]struct{}
}

// New returns an empty selection state.
func New() *State {
	return &State{
		models:  map[int64]string{},
		prompts: map[int64]string{},
		inputs:  map[int64]struct{}{},
	}
}

// Select adds an entry to the given set. Selecting an already-selected id
// refreshes its display name and is otherwise a no-op.
func (s *State) Select(kind Kind, id int64, name string) {
	switch kind {
	case KindModel:
		s.models[id] = name
	case KindPrompt:
		s.prompts[id] = name
	}
}

// Deselect removes an entry from the given set. Deselecting an absent id is a
// no-op.
func (s *State) Deselect(kind Kind, id int64) {
	switch kind {
	case KindModel:
		delete(s.models, id)
	case KindPrompt:
		delete(s.prompts, id)
	}
}

// Selected reports whether the id is currently in the given set.
func (s *State) Selected(kind Kind, id int64) bool {
	switch kind {
	case KindModel:
		_, ok := s.models[id]
		return ok
	case KindPrompt:
		_, ok := s.prompts[id]
		return ok
	}
	return false
}

// Replace rebuilds one set from an external snapshot, for controls whose
// checked state can change without passing through Select/Deselect.
func (s *State) Replace(kind Kind, items []Item) {
	set := map[int64]string{}
	for _, item := range items {
		set[item.ID] = item.Name
	}
	switch kind {
	case KindModel:
		s.models = set
	case KindPrompt:
		s.prompts = set
	}
}

// SetInputSet designates the active input set. Zero clears the designation.
func (s *State) SetInputSet(id int64) {
	s.inputSetID = id
}

// InputSet returns the designated input set id, zero if none.
func (s *State) InputSet() int64 {
	return s.inputSetID
}

// SetInputMode switches between running over all inputs and over the chosen
// subset. Switching to ModeSpecific selects nothing on its own; switching to
// ModeAll leaves the chosen subset in place but ignored.
func (s *State) SetInputMode(mode InputMode) {
	s.mode = mode
}

// Mode returns the current input mode.
func (s *State) Mode() InputMode {
	return s.mode
}

// ChooseInput marks a specific input for ModeSpecific runs.
func (s *State) ChooseInput(id int64) {
	s.inputs[id] = struct{}{}
}

// UnchooseInput unmarks a specific input. Absent ids are a no-op.
func (s *State) UnchooseInput(id int64) {
	delete(s.inputs, id)
}

// InputChosen reports whether the input is in the specific subset.
func (s *State) InputChosen(id int64) bool {
	_, ok := s.inputs[id]
	return ok
}

// ModelIDs returns the selected model ids in unspecified order.
func (s *State) ModelIDs() []int64 {
	return keys(s.models)
}

// PromptIDs returns the selected prompt ids in unspecified order.
func (s *State) PromptIDs() []int64 {
	return keys(s.prompts)
}

// ChosenInputIDs returns the specifically chosen input ids in unspecified
// order.
func (s *State) ChosenInputIDs() []int64 {
	ids := make([]int64, 0, len(s.inputs))
	for id := range s.inputs {
		ids = append(ids, id)
	}
	return ids
}

// ModelName returns the display name recorded for a selected model.
func (s *State) ModelName(id int64) string {
	return s.models[id]
}

// PromptName returns the display name recorded for a selected prompt.
func (s *State) PromptName(id int64) string {
	return s.prompts[id]
}

// CanRun reports whether a run may be triggered: at least one model, at least
// one prompt, a designated input set, and in ModeSpecific at least one
// chosen input.
func (s *State) CanRun() bool {
	if len(s.models) == 0 || len(s.prompts) == 0 {
		return false
	}
	if s.inputSetID == 0 {
		return false
	}
	if s.mode == ModeSpecific && len(s.inputs) == 0 {
		return false
	}
	return true
}

func keys(set map[int64]string) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
