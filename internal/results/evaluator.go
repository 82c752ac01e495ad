// internal/results/evaluator.go
package results

import (
	"context"
	"errors"
	"sync"

	"github.com/mfuller/evalview/internal/api"
)

// ErrNoOutputID is returned when an evaluation is attempted on a result that
// carries no output id. No network call is made in that case.
var ErrNoOutputID = errors.New("cannot save evaluation: output id is missing")

// ErrSubmitting is returned when an evaluation is attempted while a prior
// submission is still in flight.
var ErrSubmitting = errors.New("evaluation submission already in progress")

// EvalState is the per-result evaluation lifecycle.
type EvalState int

const (
	// Unevaluated means no quality has been recorded for the result.
	Unevaluated EvalState = iota
	// Submitting means a quality is being persisted; controls stay disabled.
	Submitting
	// Evaluated means a quality is recorded and shown selected.
	Evaluated
)

// SubmitFunc persists one evaluation upsert.
type SubmitFunc func(ctx context.Context, outputID int64, quality api.Quality, notes string) error

// evalSnapshot holds the state restored if a submission fails.
type evalSnapshot struct {
	state   EvalState
	quality api.Quality
	notes   string
}

// Evaluator manages the evaluate-and-persist interaction for one rendered
// result. The selected quality is updated optimistically when a submission
// begins and rolled back to the prior state if persistence fails, so at most
// one quality is ever shown selected.
//
// The lifecycle is split so interactive callers can claim the in-flight slot
// on their event loop before any network work runs: Begin flips to
// Submitting and applies the quality, Persist does the network call, Settle
// commits or rolls back. A second Begin while one is in flight returns
// ErrSubmitting. All methods are safe for concurrent use.
type Evaluator struct {
	mu       sync.Mutex
	outputID int64
	state    EvalState
	quality  api.Quality
	notes    string
	prior    evalSnapshot
	submit   SubmitFunc
}

// NewEvaluator builds an evaluator for a display record, seeding the state
// from any evaluation the backend already returned.
func NewEvaluator(d Display, submit SubmitFunc) *Evaluator {
	e := &Evaluator{outputID: d.OutputID, submit: submit}
	if d.Evaluation != nil && d.Evaluation.Quality.Valid() {
		e.state = Evaluated
		e.quality = d.Evaluation.Quality
		e.notes = d.Evaluation.Notes
	}
	return e
}

// State returns the current lifecycle state.
func (e *Evaluator) State() EvalState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Selected returns the currently highlighted quality, false when none is.
func (e *Evaluator) Selected() (api.Quality, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Unevaluated {
		return "", false
	}
	return e.quality, true
}

// Notes returns the notes associated with the current evaluation.
func (e *Evaluator) Notes() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notes
}

// Busy reports whether a submission is in flight; callers disable their
// evaluation controls while it is.
func (e *Evaluator) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == Submitting
}

// Begin claims the in-flight slot and applies the quality optimistically.
// It returns ErrNoOutputID when the result cannot be evaluated and
// ErrSubmitting when a prior submission has not settled yet; in either case
// nothing changes and no network call should follow.
func (e *Evaluator) Begin(quality api.Quality, notes string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.outputID == 0 {
		return ErrNoOutputID
	}
	if e.state == Submitting {
		return ErrSubmitting
	}
	e.prior = evalSnapshot{state: e.state, quality: e.quality, notes: e.notes}
	e.state = Submitting
	e.quality = quality
	e.notes = notes
	return nil
}

// Persist runs the submission for the in-flight quality. Call only after a
// successful Begin, and pass the result to Settle.
func (e *Evaluator) Persist(ctx context.Context) error {
	e.mu.Lock()
	outputID, quality, notes := e.outputID, e.quality, e.notes
	e.mu.Unlock()
	return e.submit(ctx, outputID, quality, notes)
}

// Settle releases the in-flight slot: on success the optimistic quality
// becomes the recorded one, on failure the prior selection is restored. The
// evaluator is re-interactable after every outcome.
func (e *Evaluator) Settle(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Submitting {
		return
	}
	if err != nil {
		e.state, e.quality, e.notes = e.prior.state, e.prior.quality, e.prior.notes
		return
	}
	e.state = Evaluated
}

// Submit records a quality judgment in one call, for callers without an
// event loop to split the lifecycle over.
func (e *Evaluator) Submit(ctx context.Context, quality api.Quality, notes string) error {
	if err := e.Begin(quality, notes); err != nil {
		return err
	}
	err := e.Persist(ctx)
	e.Settle(err)
	return err
}
