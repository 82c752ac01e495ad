// internal/api/client_test.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mfuller/evalview/internal/appconfig"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := appconfig.Config{ServerURL: server.URL, TimeoutSeconds: 5}
	return New(&cfg), server
}

// TestRequestErrorDetail verifies that a non-2xx response with a JSON detail
// field surfaces that detail, and that a body without one falls back to the
// generic message.
func TestRequestErrorDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inputs/1":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"detail": "Input not found"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `boom`)
		}
	}))

	_, err := client.GetInput(context.Background(), 1)
	reqErr, ok := err.(*RequestError)
	if !ok {
		t.Fatalf("expected *RequestError, got %T (%v)", err, err)
	}
	if reqErr.Status != http.StatusNotFound || reqErr.Message != "Input not found" {
		t.Fatalf("unexpected error: %+v", reqErr)
	}

	_, err = client.GetInput(context.Background(), 2)
	reqErr, ok = err.(*RequestError)
	if !ok {
		t.Fatalf("expected *RequestError, got %T (%v)", err, err)
	}
	if reqErr.Message != "An error occurred" {
		t.Fatalf("expected generic message, got %q", reqErr.Message)
	}
}

// TestCreateEvaluationUpsert verifies upsert semantics at the client level:
// submitting the same quality twice for one output leaves the server with
// exactly one current evaluation carrying that quality.
func TestCreateEvaluationUpsert(t *testing.T) {
	evaluations := map[int64]Evaluation{}
	calls := 0

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/evaluations/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		calls++
		var body Evaluation
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode evaluation body: %v", err)
		}
		body.ID = body.OutputID
		evaluations[body.OutputID] = body
		_ = json.NewEncoder(w).Encode(body)
	}))

	for i := 0; i < 2; i++ {
		eval, err := client.CreateEvaluation(context.Background(), 42, QualityGood, "solid")
		if err != nil {
			t.Fatalf("CreateEvaluation failed: %v", err)
		}
		if eval.Quality != QualityGood {
			t.Fatalf("expected quality good, got %q", eval.Quality)
		}
	}

	if calls != 2 {
		t.Fatalf("expected 2 round trips, got %d", calls)
	}
	if len(evaluations) != 1 {
		t.Fatalf("expected exactly one current evaluation, got %d", len(evaluations))
	}
	if evaluations[42].Quality != QualityGood {
		t.Fatalf("expected stored quality good, got %q", evaluations[42].Quality)
	}
}

// TestCreateEvaluationRejectsInvalidQuality verifies that an unknown quality
// never reaches the network.
func TestCreateEvaluationRejectsInvalidQuality(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for an invalid quality")
	}))

	if _, err := client.CreateEvaluation(context.Background(), 1, Quality("great"), ""); err == nil {
		t.Fatal("expected an error for invalid quality")
	}
}

// TestPromptVersionsGrow verifies that creating a version appends to the
// prompt's version list without mutating prior versions.
func TestPromptVersionsGrow(t *testing.T) {
	versions := []PromptVersion{
		{ID: 1, PromptID: 7, VersionNumber: 1, Template: "Summarize: {{input}}"},
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/prompts/7/versions" && r.Method == http.MethodPost:
			var body struct {
				Template string `json:"template"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			next := PromptVersion{
				ID:            int64(len(versions) + 1),
				PromptID:      7,
				VersionNumber: len(versions) + 1,
				Template:      body.Template,
			}
			versions = append(versions, next)
			_ = json.NewEncoder(w).Encode(next)
		case r.URL.Path == "/prompts/7/versions" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(versions)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"detail": "Prompt not found"}`)
		}
	}))

	before, err := client.ListPromptVersions(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListPromptVersions failed: %v", err)
	}

	created, err := client.CreatePromptVersion(context.Background(), 7, "Rewrite formally: {{input}}", "")
	if err != nil {
		t.Fatalf("CreatePromptVersion failed: %v", err)
	}
	if created.VersionNumber != len(before)+1 {
		t.Fatalf("expected version number %d, got %d", len(before)+1, created.VersionNumber)
	}

	after, err := client.ListPromptVersions(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListPromptVersions failed: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("expected version list to grow by exactly 1, got %d -> %d", len(before), len(after))
	}
	if after[0].Template != "Summarize: {{input}}" {
		t.Fatalf("prior version mutated: %+v", after[0])
	}
}

// TestComparePromptsRequestShape verifies the compare request body and that
// both bundle envelopes decode.
func TestComparePromptsRequestShape(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/compare-prompts/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, key := range []string{"input_ids", "model_ids", "prompt_ids"} {
			if _, ok := body[key]; !ok {
				t.Errorf("request body missing %q", key)
			}
		}
		fmt.Fprint(w, `[
            {"input_id": 1, "prompt_results": [{"output_id": 10, "model_id": 1, "prompt_id": 2, "text": "a"}]},
            {"input_id": 2, "results": [{"id": 11, "model_id": 1, "prompt_id": 2, "text": "b"}]}
        ]`)
	}))

	bundles, err := client.ComparePrompts(context.Background(), []int64{1, 2}, []int64{2}, []int64{1}, nil)
	if err != nil {
		t.Fatalf("ComparePrompts failed: %v", err)
	}
	if len(bundles) != 2 {
		t.Fatalf("expected 2 bundles, got %d", len(bundles))
	}
	if got := bundles[0].Entries()[0].ResolvedOutputID(); got != 10 {
		t.Fatalf("expected output id 10 from prompt_results envelope, got %d", got)
	}
	if got := bundles[1].Entries()[0].ResolvedOutputID(); got != 11 {
		t.Fatalf("expected output id 11 from results envelope, got %d", got)
	}
}

// TestDeleteSendsNoBody verifies delete requests carry no payload and accept
// bodies the caller ignores.
func TestDeleteSendsNoBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if !strings.HasPrefix(r.URL.Path, "/input-sets/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"detail": "Input set deleted"}`)
	}))

	if err := client.DeleteInputSet(context.Background(), 3); err != nil {
		t.Fatalf("DeleteInputSet failed: %v", err)
	}
}
