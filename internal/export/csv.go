// internal/export/csv.go
// Package export provides the presentation-layer utilities over a rendered
// result set: CSV serialization, column sorting, and substring filtering.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/results"
)

// csvHeader is the fixed column set of a batch-evaluation export.
var csvHeader = []string{
	"Input",
	"Input Text",
	"Model",
	"Prompt",
	"Version",
	"Output",
	"Processing Time (s)",
	"Timestamp",
	"Evaluation",
}

// WriteCSV serializes a result set, one record per (input, output) pair.
// Rows with zero results contribute zero records, so an empty result set
// yields only the header. Fields are quoted per RFC 4180; embedded newlines
// in free text are collapsed to single spaces to keep one visual line per
// record.
func WriteCSV(w io.Writer, rows []results.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		for _, d := range row.Results {
			version := ""
			if d.VersionNumber > 0 {
				version = strconv.Itoa(d.VersionNumber)
			}
			record := []string{
				flatten(row.InputName),
				flatten(row.InputText),
				flatten(d.ModelName),
				flatten(d.PromptName),
				version,
				flatten(d.Text),
				d.ProcessingTime,
				d.Timestamp(),
				QualityLabel(d.Evaluation),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// flatten collapses newlines so every record occupies one visual line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// QualityLabel renders an evaluation's quality, or the literal
// "not evaluated" when none is recorded. The terminal renderers share this
// wording with the CSV.
func QualityLabel(eval *api.Evaluation) string {
	if eval != nil && eval.Quality.Valid() {
		return string(eval.Quality)
	}
	return "not evaluated"
}
