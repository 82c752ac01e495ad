// internal/export/sort.go
package export

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mfuller/evalview/internal/results"
)

// SortKey selects the column a result grid is ordered by.
type SortKey int

const (
	SortByInput SortKey = iota
	SortByModel
	SortByPrompt
	SortByTime
)

// String returns the key's display name.
func (k SortKey) String() string {
	switch k {
	case SortByInput:
		return "input"
	case SortByModel:
		return "model"
	case SortByPrompt:
		return "prompt"
	case SortByTime:
		return "time"
	}
	return "unknown"
}

// Next cycles to the following sort key, wrapping after time.
func (k SortKey) Next() SortKey {
	if k == SortByTime {
		return SortByInput
	}
	return k + 1
}

// Sort stably orders grid rows in place by the chosen key. Rows with several
// result cells are keyed by their first cell, matching how the grid displays
// them. Ties keep their prior relative order. Processing times are compared
// numerically after parsing the display text; unparsable times ("?") sort
// after every number.
func Sort(rows []results.Row, key SortKey, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i], rows[j], key)
		if ascending {
			return c < 0
		}
		return c > 0
	})
}

func compare(a, b results.Row, key SortKey) int {
	switch key {
	case SortByModel:
		return strings.Compare(firstCell(a).ModelName, firstCell(b).ModelName)
	case SortByPrompt:
		return strings.Compare(firstCell(a).PromptName, firstCell(b).PromptName)
	case SortByTime:
		ta := ParseProcessingTime(firstCell(a).ProcessingTime)
		tb := ParseProcessingTime(firstCell(b).ProcessingTime)
		switch {
		case ta < tb:
			return -1
		case ta > tb:
			return 1
		}
		return 0
	default:
		return strings.Compare(a.InputName, b.InputName)
	}
}

func firstCell(row results.Row) results.Display {
	if len(row.Results) == 0 {
		return results.Display{ProcessingTime: "?"}
	}
	return row.Results[0]
}

// ParseProcessingTime extracts the numeric seconds from a displayed time such
// as "1.50" or "1.50s". Values that carry no number report +Inf so they sort
// last in ascending order.
func ParseProcessingTime(display string) float64 {
	trimmed := strings.TrimSpace(display)
	trimmed = strings.TrimSuffix(trimmed, "s")
	trimmed = strings.TrimSpace(trimmed)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.Inf(1)
	}
	return value
}
