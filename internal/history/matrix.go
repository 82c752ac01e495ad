// internal/history/matrix.go
// Package history reshapes an input's recorded outputs into inspectable
// views: a dense model × prompt matrix and a day-by-day timeline.
package history

import (
	"fmt"
	"sort"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/results"
)

// RowHeader labels one model row of the matrix.
type RowHeader struct {
	ModelID int64
	Name    string
}

// ColumnHeader labels one prompt column of the matrix. Versions lists the
// distinct prompt version numbers observed across the column's cells, newest
// first; a column with more than one version gets a version badge.
type ColumnHeader struct {
	PromptID int64
	Name     string
	Versions []int
}

// Cell is one (model, prompt) intersection. Latest is nil for pairs with no
// recorded outputs; such cells are still present so the grid is always
// complete over the filtered row and column sets. History holds every entry
// for the pair, newest first, Latest included.
type Cell struct {
	ModelID  int64
	PromptID int64
	Latest   *results.Display
	History  []results.Display
}

// Empty reports whether the pair has no recorded outputs.
func (c Cell) Empty() bool {
	return c.Latest == nil
}

// Matrix is the dense grid over the filtered models and prompts.
type Matrix struct {
	Rows    []RowHeader
	Columns []ColumnHeader
	// Cells is indexed [row][column], aligned with Rows and Columns.
	Cells [][]Cell
}

// NoCombinations reports whether filtering produced an empty grid; callers
// render a "no combinations" message instead of an empty table.
func (m Matrix) NoCombinations() bool {
	return len(m.Rows) == 0 || len(m.Columns) == 0
}

type pairKey struct {
	modelID  int64
	promptID int64
}

// Build groups an input's history by (model, prompt) pair and lays the groups
// out as a grid. Entries missing a model or prompt id cannot be placed and
// are dropped. A zero modelFilter or promptFilter means no narrowing.
func Build(h api.History, modelFilter, promptFilter int64) Matrix {
	bundle := api.Bundle{Input: h.Input}

	groups := map[pairKey][]results.Display{}
	var modelOrder []int64
	modelNames := map[int64]string{}
	var promptOrder []int64
	promptNames := map[int64]string{}
	versions := map[int64]map[int]struct{}{}

	for _, entry := range h.Results {
		if entry.ModelID == 0 || entry.PromptID == 0 {
			continue
		}

		key := pairKey{entry.ModelID, entry.PromptID}
		groups[key] = append(groups[key], results.Normalize(bundle, entry))

		if _, seen := modelNames[entry.ModelID]; !seen {
			modelOrder = append(modelOrder, entry.ModelID)
			modelNames[entry.ModelID] = displayName(entry.ModelName, "Model", entry.ModelID)
		}
		if _, seen := promptNames[entry.PromptID]; !seen {
			promptOrder = append(promptOrder, entry.PromptID)
			promptNames[entry.PromptID] = displayName(entry.PromptName, "Prompt", entry.PromptID)
			versions[entry.PromptID] = map[int]struct{}{}
		}
		if entry.PromptVersionNumber > 0 {
			versions[entry.PromptID][entry.PromptVersionNumber] = struct{}{}
		}
	}

	for key := range groups {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CreatedAt.After(group[j].CreatedAt)
		})
	}

	var m Matrix
	for _, id := range modelOrder {
		if modelFilter != 0 && id != modelFilter {
			continue
		}
		m.Rows = append(m.Rows, RowHeader{ModelID: id, Name: modelNames[id]})
	}
	for _, id := range promptOrder {
		if promptFilter != 0 && id != promptFilter {
			continue
		}
		m.Columns = append(m.Columns, ColumnHeader{
			PromptID: id,
			Name:     promptNames[id],
			Versions: sortedVersions(versions[id]),
		})
	}

	m.Cells = make([][]Cell, len(m.Rows))
	for i, row := range m.Rows {
		m.Cells[i] = make([]Cell, len(m.Columns))
		for j, col := range m.Columns {
			cell := Cell{ModelID: row.ModelID, PromptID: col.PromptID}
			if group := groups[pairKey{row.ModelID, col.PromptID}]; len(group) > 0 {
				cell.Latest = &group[0]
				cell.History = group
			}
			m.Cells[i][j] = cell
		}
	}

	return m
}

func displayName(name, kind string, id int64) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s %d", kind, id)
}

func sortedVersions(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
