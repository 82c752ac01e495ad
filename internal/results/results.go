// internal/results/results.go
// Package results normalizes the backend's heterogeneous result envelopes
// into one canonical display record. Four endpoints (process, batch-process,
// compare-prompts, input history) wrap the same logical output entity in
// structurally different payloads; this package is the single place that
// variance is absorbed so every view renders consistently.
package results

import (
	"fmt"
	"time"

	"github.com/mfuller/evalview/internal/api"
)

const (
	// UnknownInputLabel is rendered when no input id can be resolved at all.
	UnknownInputLabel = "unknown"
	unknownModelName  = "Unknown model"
	unknownPromptName = "Unknown prompt"
	unnamedInputName  = "Unnamed Input"
	noInputText       = "No text available"
	noOutputText      = "No output text available"
)

// Display is the canonical, render-ready form of one result. Every field is
// populated: missing wire data degrades to a labeled fallback, never to a
// crash.
type Display struct {
	InputID    int64
	InputLabel string
	InputName  string
	InputText  string

	OutputID int64
	ModelID  int64
	PromptID int64

	ModelName     string
	PromptName    string
	PromptLabel   string
	VersionNumber int

	Text           string
	ProcessingTime string
	CreatedAt      time.Time

	PromptTemplate string
	SystemPrompt   string

	Evaluation *api.Evaluation
}

// CanEvaluate reports whether this result may receive an evaluation. Without
// an output id there is nothing to attach the judgment to.
func (d Display) CanEvaluate() bool {
	return d.OutputID != 0
}

// Timestamp renders the creation time for display.
func (d Display) Timestamp() string {
	return d.CreatedAt.Format("2006-01-02 15:04:05")
}

// Row is one input with all its normalized results, as shown in the batch
// grid. Inputs with zero results still produce a row so the grid stays
// complete.
type Row struct {
	InputID   int64
	InputName string
	InputText string
	Results   []Display
	Hidden    bool
}

// Normalize converts one wire entry, in the context of its bundle, into a
// Display. Fallbacks apply in order, first non-empty wins.
func Normalize(bundle api.Bundle, entry api.ResultEntry) Display {
	return normalizeAt(bundle, entry, time.Now())
}

func normalizeAt(bundle api.Bundle, entry api.ResultEntry, now time.Time) Display {
	d := Display{
		OutputID:      entry.ResolvedOutputID(),
		ModelID:       entry.ModelID,
		PromptID:      entry.PromptID,
		VersionNumber: entry.PromptVersionNumber,

		PromptTemplate: entry.PromptTemplate,
		SystemPrompt:   entry.SystemPrompt,
		Evaluation:     entry.Evaluation,
	}

	d.InputID, d.InputLabel = resolveInputID(bundle, entry)
	d.InputName = resolveInputName(bundle, d.InputID)
	d.InputText = resolveInputText(bundle)

	d.ModelName = entry.ModelName
	if d.ModelName == "" {
		d.ModelName = unknownModelName
	}
	d.PromptName = entry.PromptName
	if d.PromptName == "" {
		d.PromptName = unknownPromptName
	}
	d.PromptLabel = d.PromptName
	if entry.PromptVersionNumber > 0 {
		d.PromptLabel = fmt.Sprintf("%s (v%d)", d.PromptName, entry.PromptVersionNumber)
	}

	d.Text = entry.Text
	if d.Text == "" {
		d.Text = noOutputText
	}

	if entry.ProcessingTime != nil {
		d.ProcessingTime = fmt.Sprintf("%.2f", *entry.ProcessingTime)
	} else {
		d.ProcessingTime = "?"
	}

	if entry.CreatedAt != nil {
		d.CreatedAt = *entry.CreatedAt
	} else {
		d.CreatedAt = now
	}

	return d
}

func resolveInputID(bundle api.Bundle, entry api.ResultEntry) (int64, string) {
	if bundle.Input != nil && bundle.Input.ID != 0 {
		return bundle.Input.ID, fmt.Sprintf("%d", bundle.Input.ID)
	}
	if bundle.InputID != 0 {
		return bundle.InputID, fmt.Sprintf("%d", bundle.InputID)
	}
	if entry.InputID != 0 {
		return entry.InputID, fmt.Sprintf("%d", entry.InputID)
	}
	return 0, UnknownInputLabel
}

func resolveInputName(bundle api.Bundle, inputID int64) string {
	if bundle.Input != nil && bundle.Input.Name != "" {
		return bundle.Input.Name
	}
	if inputID != 0 {
		return fmt.Sprintf("Input #%d", inputID)
	}
	return unnamedInputName
}

func resolveInputText(bundle api.Bundle) string {
	if bundle.Input != nil && bundle.Input.Text != "" {
		return bundle.Input.Text
	}
	return noInputText
}

// NormalizeBundle converts one bundle into a grid row.
func NormalizeBundle(bundle api.Bundle) Row {
	entries := bundle.Entries()
	row := Row{Results: make([]Display, 0, len(entries))}
	for _, entry := range entries {
		row.Results = append(row.Results, Normalize(bundle, entry))
	}
	if len(row.Results) > 0 {
		first := row.Results[0]
		row.InputID = first.InputID
		row.InputName = first.InputName
		row.InputText = first.InputText
		return row
	}

	// No entries; resolve the input fields directly so empty rows still label
	// themselves.
	id, _ := resolveInputID(bundle, api.ResultEntry{})
	row.InputID = id
	row.InputName = resolveInputName(bundle, id)
	row.InputText = resolveInputText(bundle)
	return row
}

// NormalizeBundles converts a run's bundle list into grid rows, preserving
// the backend's ordering.
func NormalizeBundles(bundles []api.Bundle) []Row {
	rows := make([]Row, 0, len(bundles))
	for _, bundle := range bundles {
		rows = append(rows, NormalizeBundle(bundle))
	}
	return rows
}

// Augment backfills missing nested inputs on compare responses from an
// already-loaded input set, keyed by input_id.
func Augment(bundles []api.Bundle, inputs []api.Input) {
	byID := make(map[int64]api.Input, len(inputs))
	for _, input := range inputs {
		byID[input.ID] = input
	}
	for i := range bundles {
		if bundles[i].Input != nil && bundles[i].Input.ID != 0 {
			continue
		}
		if input, ok := byID[bundles[i].InputID]; ok {
			copied := input
			bundles[i].Input = &copied
		}
	}
}
