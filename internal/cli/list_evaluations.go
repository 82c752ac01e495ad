// internal/cli/list_evaluations.go
package evalview

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/api"
)

// listEvaluationsCmd implements 'list evaluations'.
var listEvaluationsCmd = &cobra.Command{
	Use:   "evaluations",
	Short: "List recorded evaluations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		evals, err := newClient().ListEvaluations(context.Background())
		if err != nil {
			return err
		}
		debugDump(evals)
		printEvaluations(evals)
		return nil
	},
}

func printEvaluations(evals []api.Evaluation) {
	if len(evals) == 0 {
		fmt.Println("No evaluations recorded.")
		return
	}
	sorted := make([]api.Evaluation, len(evals))
	copy(sorted, evals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	fmt.Println(headerStyle.Render("Evaluations:"))
	for _, e := range sorted {
		line := fmt.Sprintf("  output %d: %s", e.OutputID, qualityColored(e.Quality))
		if e.Notes != "" {
			line += "  " + dimLabel(e.Notes)
		}
		fmt.Println(line)
	}
}

// qualityColored renders a quality judgment in its conventional color.
func qualityColored(q api.Quality) string {
	switch q {
	case api.QualityGood:
		return goodLabel(string(q))
	case api.QualityOK:
		return okLabel(string(q))
	case api.QualityBad:
		return badLabel(string(q))
	}
	return string(q)
}

func init() {
	listCmd.AddCommand(listEvaluationsCmd)
}
