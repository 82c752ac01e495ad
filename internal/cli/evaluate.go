// internal/cli/evaluate.go
package evalview

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/api"
)

var evaluateNotes string

// evaluateCmd implements 'evaluate <output-id> <quality>'. Re-evaluating an
// output replaces the prior judgment: the backend keeps one evaluation per
// output.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <output-id> <bad|ok|good>",
	Short: "Record a quality judgment for an output",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "output id")
		if err != nil {
			return err
		}
		quality := api.Quality(args[1])
		if !quality.Valid() {
			return fmt.Errorf("invalid quality %q: use bad, ok, or good", args[1])
		}

		eval, err := newClient().CreateEvaluation(context.Background(), id, quality, evaluateNotes)
		if err != nil {
			return err
		}
		debugDump(eval)
		fmt.Printf("Recorded %s for output %d\n", qualityColored(eval.Quality), eval.OutputID)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateNotes, "notes", "", "free-form notes to store with the judgment")
	rootCmd.AddCommand(evaluateCmd)
}
