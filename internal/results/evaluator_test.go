// internal/results/evaluator_test.go
package results

import (
	"context"
	"errors"
	"testing"

	"github.com/mfuller/evalview/internal/api"
)

// TestEvaluatorRefusesWithoutOutputID verifies the hard precondition: no
// output id means no state change and no submit call.
func TestEvaluatorRefusesWithoutOutputID(t *testing.T) {
	called := false
	e := NewEvaluator(Display{}, func(ctx context.Context, outputID int64, quality api.Quality, notes string) error {
		called = true
		return nil
	})

	err := e.Submit(context.Background(), api.QualityGood, "")
	if !errors.Is(err, ErrNoOutputID) {
		t.Fatalf("expected ErrNoOutputID, got %v", err)
	}
	if called {
		t.Fatal("submit func must not be called without an output id")
	}
	if e.State() != Unevaluated {
		t.Fatalf("state must be unchanged, got %v", e.State())
	}
}

// TestEvaluatorOptimisticRollback verifies the selection rolls back to the
// prior quality when persistence fails, and to unevaluated when there was no
// prior quality.
func TestEvaluatorOptimisticRollback(t *testing.T) {
	fail := errors.New("backend down")

	// No prior evaluation: failure rolls back to unevaluated.
	e := NewEvaluator(Display{OutputID: 1}, func(ctx context.Context, outputID int64, quality api.Quality, notes string) error {
		return fail
	})
	if err := e.Submit(context.Background(), api.QualityOK, ""); !errors.Is(err, fail) {
		t.Fatalf("expected submit error, got %v", err)
	}
	if _, selected := e.Selected(); selected {
		t.Fatal("failed first evaluation must leave nothing selected")
	}

	// Prior evaluation: failure restores it.
	e = NewEvaluator(Display{
		OutputID:   2,
		Evaluation: &api.Evaluation{OutputID: 2, Quality: api.QualityBad, Notes: "meh"},
	}, func(ctx context.Context, outputID int64, quality api.Quality, notes string) error {
		return fail
	})
	if err := e.Submit(context.Background(), api.QualityGood, "better"); !errors.Is(err, fail) {
		t.Fatalf("expected submit error, got %v", err)
	}
	quality, selected := e.Selected()
	if !selected || quality != api.QualityBad {
		t.Fatalf("expected rollback to prior quality bad, got %q (selected=%v)", quality, selected)
	}
	if e.Notes() != "meh" {
		t.Fatalf("expected prior notes restored, got %q", e.Notes())
	}
	if e.Busy() {
		t.Fatal("evaluator must be re-interactable after a failure")
	}
}

// TestEvaluatorReEvaluation verifies the evaluated -> submitting -> evaluated
// transition replaces the quality and that exactly one quality is selected
// throughout.
func TestEvaluatorReEvaluation(t *testing.T) {
	var gotOutputID int64
	var gotQuality api.Quality
	e := NewEvaluator(Display{
		OutputID:   3,
		Evaluation: &api.Evaluation{OutputID: 3, Quality: api.QualityOK},
	}, func(ctx context.Context, outputID int64, quality api.Quality, notes string) error {
		gotOutputID, gotQuality = outputID, quality
		return nil
	})

	if err := e.Submit(context.Background(), api.QualityGood, "improved"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if gotOutputID != 3 || gotQuality != api.QualityGood {
		t.Fatalf("submit func saw %d/%q", gotOutputID, gotQuality)
	}
	if e.State() != Evaluated {
		t.Fatalf("expected Evaluated, got %v", e.State())
	}
	quality, selected := e.Selected()
	if !selected || quality != api.QualityGood {
		t.Fatalf("expected good selected, got %q", quality)
	}
}

// TestEvaluatorRejectsConcurrentSubmit verifies the in-flight guard.
func TestEvaluatorRejectsConcurrentSubmit(t *testing.T) {
	e := &Evaluator{outputID: 4, state: Submitting}
	if err := e.Submit(context.Background(), api.QualityGood, ""); !errors.Is(err, ErrSubmitting) {
		t.Fatalf("expected ErrSubmitting, got %v", err)
	}
}

// TestEvaluatorSingleInFlight verifies that while one submission is still
// persisting on another goroutine, a second Begin is refused, Busy reports
// true, and the evaluator settles cleanly once the first one finishes.
func TestEvaluatorSingleInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	e := NewEvaluator(Display{OutputID: 9}, func(ctx context.Context, outputID int64, quality api.Quality, notes string) error {
		close(started)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- e.Submit(context.Background(), api.QualityGood, "")
	}()
	<-started

	if err := e.Begin(api.QualityBad, ""); !errors.Is(err, ErrSubmitting) {
		t.Fatalf("expected ErrSubmitting while a submission is in flight, got %v", err)
	}
	if !e.Busy() {
		t.Fatal("evaluator must report busy while submitting")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	quality, selected := e.Selected()
	if !selected || quality != api.QualityGood {
		t.Fatalf("expected good selected after settling, got %q (selected=%v)", quality, selected)
	}
	if err := e.Begin(api.QualityBad, ""); err != nil {
		t.Fatalf("Begin after settling should succeed, got %v", err)
	}
	e.Settle(nil)
}

// TestEvaluatorBeginSettleLifecycle verifies the split lifecycle the
// interactive grid drives: Begin applies the quality optimistically,
// Settle(err) restores the prior selection, Settle(nil) records it.
func TestEvaluatorBeginSettleLifecycle(t *testing.T) {
	e := NewEvaluator(Display{
		OutputID:   5,
		Evaluation: &api.Evaluation{OutputID: 5, Quality: api.QualityOK, Notes: "fine"},
	}, func(ctx context.Context, outputID int64, quality api.Quality, notes string) error {
		return nil
	})

	if err := e.Begin(api.QualityGood, "fine"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if quality, _ := e.Selected(); quality != api.QualityGood {
		t.Fatalf("expected optimistic good, got %q", quality)
	}
	e.Settle(errors.New("backend down"))
	if quality, _ := e.Selected(); quality != api.QualityOK {
		t.Fatalf("expected rollback to ok, got %q", quality)
	}
	if e.Busy() {
		t.Fatal("evaluator must be re-interactable after a failed settle")
	}

	if err := e.Begin(api.QualityGood, "fine"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	e.Settle(nil)
	if e.State() != Evaluated {
		t.Fatalf("expected Evaluated, got %v", e.State())
	}
}
