// internal/export/csv_test.go
package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/results"
)

// TestWriteCSVHeaderOnly verifies that a result set with zero outputs still
// produces a parseable file containing only the header row.
func TestWriteCSVHeaderOnly(t *testing.T) {
	rows := []results.Row{
		{InputID: 1, InputName: "Empty input"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV did not parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header row only, got %d records", len(records))
	}
	if records[0][0] != "Input" || records[0][8] != "Evaluation" {
		t.Fatalf("unexpected header: %v", records[0])
	}
}

// TestWriteCSVEscaping verifies that commas and quotes survive a round trip
// and embedded newlines collapse to single spaces.
func TestWriteCSVEscaping(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	rows := []results.Row{
		{
			InputID:   7,
			InputName: `News, "quoted"`,
			InputText: "line one\nline two",
			Results: []results.Display{
				{
					OutputID:       11,
					ModelName:      "llama3.2:3b",
					PromptName:     "Basic Summary",
					VersionNumber:  2,
					Text:           "a, \"b\"\r\nc",
					ProcessingTime: "1.50",
					CreatedAt:      created,
					Evaluation:     &api.Evaluation{OutputID: 11, Quality: api.QualityGood},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	out := buf.String()
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV did not parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one record, got %d", len(records))
	}

	rec := records[1]
	if rec[0] != `News, "quoted"` {
		t.Fatalf("input name mangled: %q", rec[0])
	}
	if rec[1] != "line one line two" {
		t.Fatalf("newline not collapsed: %q", rec[1])
	}
	if rec[4] != "2" {
		t.Fatalf("expected version 2, got %q", rec[4])
	}
	if rec[5] != `a, "b" c` {
		t.Fatalf("output text mangled: %q", rec[5])
	}
	if rec[7] != "2026-03-14 09:26:53" {
		t.Fatalf("unexpected timestamp: %q", rec[7])
	}
	if rec[8] != "good" {
		t.Fatalf("expected evaluation good, got %q", rec[8])
	}
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("each record should occupy one line:\n%s", out)
	}
}

// TestQualityLabel covers the evaluated and unevaluated renderings.
func TestQualityLabel(t *testing.T) {
	if got := QualityLabel(nil); got != "not evaluated" {
		t.Fatalf("nil evaluation: got %q", got)
	}
	if got := QualityLabel(&api.Evaluation{Quality: api.QualityOK}); got != "ok" {
		t.Fatalf("ok evaluation: got %q", got)
	}
	if got := QualityLabel(&api.Evaluation{Quality: api.Quality("great")}); got != "not evaluated" {
		t.Fatalf("invalid quality should not be exported: got %q", got)
	}
}
