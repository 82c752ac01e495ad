// internal/api/types.go
package api

import "time"

// Quality is a human judgment of an output's quality.
type Quality string

const (
	QualityBad  Quality = "bad"
	QualityOK   Quality = "ok"
	QualityGood Quality = "good"
)

// Valid reports whether q is one of the qualities the backend accepts.
func (q Quality) Valid() bool {
	switch q {
	case QualityBad, QualityOK, QualityGood:
		return true
	}
	return false
}

// Model identifies an LLM backend target registered with the server.
type Model struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Prompt is a named template family.
type Prompt struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Template    string `json:"template,omitempty"`
}

// PromptDetail is a prompt together with its full version list.
type PromptDetail struct {
	Prompt
	Versions []PromptVersion `json:"versions"`
}

// PromptVersion is one immutable revision of a prompt's template. Edits
// always create a new version; existing versions are never rewritten.
type PromptVersion struct {
	ID            int64  `json:"id"`
	PromptID      int64  `json:"prompt_id"`
	VersionNumber int    `json:"version_number"`
	Template      string `json:"template"`
	SystemPrompt  string `json:"system_prompt,omitempty"`
}

// InputSet is a named collection of inputs.
type InputSet struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// InputSetDetail is an input set together with its inputs.
type InputSetDetail struct {
	InputSet
	Inputs []Input `json:"inputs"`
}

// Input is a unit of raw text to evaluate.
type Input struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name,omitempty"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Evaluation is a quality judgment attached to an output. At most one
// evaluation exists per output; resubmitting overwrites it.
type Evaluation struct {
	ID        int64      `json:"id,omitempty"`
	OutputID  int64      `json:"output_id"`
	Quality   Quality    `json:"quality"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ResultEntry is one (input, model, prompt version) invocation result. The
// backend's endpoints disagree on the envelope: the compare path reports
// output_id while the process path reports id, and nested names may be
// absent. The results package absorbs that variance; this type only carries
// whatever the wire supplied.
type ResultEntry struct {
	ID                  int64       `json:"id,omitempty"`
	OutputID            int64       `json:"output_id,omitempty"`
	InputID             int64       `json:"input_id,omitempty"`
	ModelID             int64       `json:"model_id,omitempty"`
	PromptID            int64       `json:"prompt_id,omitempty"`
	ModelName           string      `json:"model_name,omitempty"`
	PromptName          string      `json:"prompt_name,omitempty"`
	PromptVersionNumber int         `json:"prompt_version_number,omitempty"`
	PromptTemplate      string      `json:"prompt_template,omitempty"`
	SystemPrompt        string      `json:"system_prompt,omitempty"`
	Text                string      `json:"text,omitempty"`
	ProcessingTime      *float64    `json:"processing_time,omitempty"`
	CreatedAt           *time.Time  `json:"created_at,omitempty"`
	Evaluation          *Evaluation `json:"evaluation,omitempty"`
}

// ResolvedOutputID returns the entry's output id, tolerating both envelope
// spellings. Zero means the entry cannot be evaluated.
func (r ResultEntry) ResolvedOutputID() int64 {
	if r.OutputID != 0 {
		return r.OutputID
	}
	return r.ID
}

// Bundle groups one input with all its associated results for one run. The
// process and history paths populate Results; the compare path populates
// PromptResults.
type Bundle struct {
	InputID       int64         `json:"input_id,omitempty"`
	Input         *Input        `json:"input,omitempty"`
	Results       []ResultEntry `json:"results,omitempty"`
	PromptResults []ResultEntry `json:"prompt_results,omitempty"`
}

// Entries returns the bundle's result list regardless of which envelope the
// backend used.
func (b Bundle) Entries() []ResultEntry {
	if len(b.PromptResults) > 0 {
		return b.PromptResults
	}
	return b.Results
}

// History is the full recorded output list for one input.
type History struct {
	Input   *Input        `json:"input,omitempty"`
	Results []ResultEntry `json:"results"`
}
