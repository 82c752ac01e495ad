// internal/export/filter.go
package export

import (
	"strings"

	"github.com/mfuller/evalview/internal/results"
)

// ApplyFilter marks rows hidden when neither the input name nor the input
// text contains the query, comparing case-insensitively. An empty query
// unhides every row. Rows are marked rather than removed so clearing the
// filter restores the full set without refetching.
func ApplyFilter(rows []results.Row, query string) {
	needle := strings.ToLower(strings.TrimSpace(query))
	for i := range rows {
		if needle == "" {
			rows[i].Hidden = false
			continue
		}
		name := strings.ToLower(rows[i].InputName)
		text := strings.ToLower(rows[i].InputText)
		rows[i].Hidden = !strings.Contains(name, needle) && !strings.Contains(text, needle)
	}
}

// VisibleCount reports how many rows survive the current filter.
func VisibleCount(rows []results.Row) int {
	n := 0
	for _, r := range rows {
		if !r.Hidden {
			n++
		}
	}
	return n
}
