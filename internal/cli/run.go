// internal/cli/run.go
package evalview

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/results"
)

var (
	runModelIDs    []int64
	runPromptIDs   []int64
	runVersionPins []string
)

// runCmd implements 'run <text>...': process ad-hoc texts through the
// selected models and prompts and print the normalized results. One text
// uses the single-process endpoint; several go through batch-process.
var runCmd = &cobra.Command{
	Use:   "run <text> [text...]",
	Short: "Process ad-hoc texts through models and prompts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(runModelIDs) == 0 || len(runPromptIDs) == 0 {
			return fmt.Errorf("at least one --model and one --prompt are required")
		}
		pins, err := parseVersionPins(runVersionPins)
		if err != nil {
			return err
		}

		client := newClient()
		ctx := context.Background()

		if len(args) == 1 {
			bundle, err := client.Process(ctx, args[0], runModelIDs, runPromptIDs, pins)
			if err != nil {
				return err
			}
			debugDump(bundle)
			renderRow(normalizeRunBundle(bundle, args[0]))
			return nil
		}

		bundles, err := client.BatchProcess(ctx, args, runModelIDs, runPromptIDs, pins)
		if err != nil {
			return err
		}
		debugDump(bundles)
		for i, bundle := range bundles {
			submitted := ""
			if i < len(args) {
				submitted = args[i]
			}
			renderRow(normalizeRunBundle(bundle, submitted))
		}
		return nil
	},
}

// parseVersionPins parses repeated "promptID=versionID" pins into a map.
func parseVersionPins(pins []string) (map[int64]int64, error) {
	if len(pins) == 0 {
		return nil, nil
	}
	out := make(map[int64]int64, len(pins))
	for _, pin := range pins {
		parts := strings.SplitN(pin, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --version %q, want promptID=versionID", pin)
		}
		promptID, err1 := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		versionID, err2 := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err1 != nil || err2 != nil || promptID <= 0 || versionID <= 0 {
			return nil, fmt.Errorf("invalid --version %q, want promptID=versionID", pin)
		}
		out[promptID] = versionID
	}
	return out, nil
}

// normalizeRunBundle normalizes a single-text run, substituting the
// submitted text when the backend echoes no input record back.
func normalizeRunBundle(bundle api.Bundle, submitted string) results.Row {
	row := results.NormalizeBundle(bundle)
	if bundle.Input == nil || bundle.Input.Text == "" {
		row.InputText = submitted
	}
	return row
}

func init() {
	runCmd.Flags().Int64SliceVar(&runModelIDs, "model", nil, "model id (repeatable)")
	runCmd.Flags().Int64SliceVar(&runPromptIDs, "prompt", nil, "prompt id (repeatable)")
	runCmd.Flags().StringSliceVar(&runVersionPins, "version", nil, "pin a prompt to a version, promptID=versionID (repeatable)")
	rootCmd.AddCommand(runCmd)
}
