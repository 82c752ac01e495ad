// internal/history/timeline.go
package history

import (
	"sort"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/results"
)

// Day groups the results recorded on one calendar day, newest result first.
type Day struct {
	Date    string // 2006-01-02
	Results []results.Display
}

// Timeline groups an input's history by creation day, newest day first.
// Unlike the matrix, placement does not require model or prompt ids, so
// nothing is dropped.
func Timeline(h api.History) []Day {
	bundle := api.Bundle{Input: h.Input}

	byDate := map[string][]results.Display{}
	for _, entry := range h.Results {
		d := results.Normalize(bundle, entry)
		date := d.CreatedAt.Format("2006-01-02")
		byDate[date] = append(byDate[date], d)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		group := byDate[date]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CreatedAt.After(group[j].CreatedAt)
		})
		days = append(days, Day{Date: date, Results: group})
	}
	return days
}
