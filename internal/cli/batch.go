// internal/cli/batch.go
package evalview

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/export"
	"github.com/mfuller/evalview/internal/results"
	"github.com/mfuller/evalview/internal/selection"
	"github.com/mfuller/evalview/internal/util"
)

var (
	batchSetID       int64
	batchModelIDs    []int64
	batchPromptIDs   []int64
	batchInputIDs    []int64
	batchVersionPins []string
	batchExportPath  string
	batchSortKey     string
	batchDescending  bool
	batchFilter      string
)

// batchCmd implements 'batch': run every (input, model, prompt) combination
// of an input set and print the result grid, optionally exporting it to CSV.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a full input set through models and prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchSetID <= 0 {
			return fmt.Errorf("--set is required")
		}
		if len(batchModelIDs) == 0 || len(batchPromptIDs) == 0 {
			return fmt.Errorf("at least one --model and one --prompt are required")
		}
		pins, err := parseVersionPins(batchVersionPins)
		if err != nil {
			return err
		}

		sel := buildSelection(batchSetID, batchModelIDs, batchPromptIDs, batchInputIDs)
		if !sel.CanRun() {
			return fmt.Errorf("nothing to run for input set %d", batchSetID)
		}

		client := newClient()
		ctx := context.Background()

		rows, err := runBatch(ctx, client, sel, pins)
		if err != nil {
			return err
		}

		if batchFilter != "" {
			export.ApplyFilter(rows, batchFilter)
			fmt.Printf("Filter %q: %d of %d inputs match.\n\n", batchFilter, export.VisibleCount(rows), len(rows))
		}
		if key, ok := parseSortKey(batchSortKey); ok {
			export.Sort(rows, key, !batchDescending)
		}

		renderRows(rows)

		if batchExportPath != "" || GetConfig().ExportPath != "" {
			path := batchExportPath
			if path == "" {
				path = GetConfig().ExportFilePath()
			}
			if err := exportRows(rows, path); err != nil {
				return err
			}
			fmt.Printf("Exported %d inputs to %s\n", export.VisibleCount(rows), path)
		}
		return nil
	},
}

// buildSelection assembles the selection state the flags describe. Naming
// input ids narrows the run to that subset; otherwise the whole set runs.
func buildSelection(setID int64, modelIDs, promptIDs, inputIDs []int64) *selection.State {
	sel := selection.New()
	sel.SetInputSet(setID)
	for _, id := range modelIDs {
		sel.Select(selection.KindModel, id, "")
	}
	for _, id := range promptIDs {
		sel.Select(selection.KindPrompt, id, "")
	}
	if len(inputIDs) > 0 {
		sel.SetInputMode(selection.ModeSpecific)
		for _, id := range inputIDs {
			sel.ChooseInput(id)
		}
	}
	return sel
}

// runBatch fetches the set, runs the combinations through the bulk endpoint,
// and returns normalized rows ordered newest input first. Limiting to the
// chosen subset of the set's inputs happens server side via the id list.
func runBatch(ctx context.Context, client *api.Client, sel *selection.State, pins map[int64]int64) ([]results.Row, error) {
	setID := sel.InputSet()
	detail, err := client.GetInputSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if sel.Mode() == selection.ModeSpecific {
		ids = sel.ChosenInputIDs()
	} else {
		ids = make([]int64, 0, len(detail.Inputs))
		for _, in := range detail.Inputs {
			ids = append(ids, in.ID)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("input set %d has no inputs", setID)
	}

	bundles, err := client.ComparePrompts(ctx, ids, sel.PromptIDs(), sel.ModelIDs(), pins)
	if err != nil {
		return nil, err
	}

	// Bulk responses often carry bare input ids. Backfill names and text
	// from the set detail so the grid never shows placeholder labels.
	results.Augment(bundles, detail.Inputs)

	rows := results.NormalizeBundles(bundles)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].InputID > rows[j].InputID })
	return rows, nil
}

// exportRows writes the visible rows to a CSV file.
func exportRows(rows []results.Row, path string) error {
	visible := make([]results.Row, 0, len(rows))
	for _, r := range rows {
		if !r.Hidden {
			visible = append(visible, r)
		}
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, visible); err != nil {
		return fmt.Errorf("serialize CSV: %w", err)
	}
	if err := util.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write CSV file: %w", err)
	}
	return nil
}

// parseSortKey maps the --sort flag value to a key. Empty means no sorting.
func parseSortKey(raw string) (export.SortKey, bool) {
	switch raw {
	case "input":
		return export.SortByInput, true
	case "model":
		return export.SortByModel, true
	case "prompt":
		return export.SortByPrompt, true
	case "time":
		return export.SortByTime, true
	}
	return 0, false
}

func init() {
	batchCmd.Flags().Int64Var(&batchSetID, "set", 0, "input set id to process")
	batchCmd.Flags().Int64SliceVar(&batchModelIDs, "model", nil, "model id (repeatable)")
	batchCmd.Flags().Int64SliceVar(&batchPromptIDs, "prompt", nil, "prompt id (repeatable)")
	batchCmd.Flags().Int64SliceVar(&batchInputIDs, "input", nil, "restrict to these input ids (repeatable)")
	batchCmd.Flags().StringSliceVar(&batchVersionPins, "version", nil, "pin a prompt to a version, promptID=versionID (repeatable)")
	batchCmd.Flags().StringVar(&batchExportPath, "export", "", "write the results to this CSV file")
	batchCmd.Flags().StringVar(&batchSortKey, "sort", "", "sort rows by input, model, prompt, or time")
	batchCmd.Flags().BoolVar(&batchDescending, "desc", false, "sort in descending order")
	batchCmd.Flags().StringVar(&batchFilter, "filter", "", "show only inputs whose name or text contains this")
	rootCmd.AddCommand(batchCmd)
}
