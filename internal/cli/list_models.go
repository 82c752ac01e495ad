// internal/cli/list_models.go
package evalview

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/api"
)

// listModelsCmd implements 'list models'.
var listModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models registered on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		models, err := newClient().ListModels(context.Background())
		if err != nil {
			return err
		}
		debugDump(models)
		printModels(models)
		return nil
	},
}

func printModels(models []api.Model) {
	if len(models) == 0 {
		fmt.Println("No models registered.")
		return
	}
	fmt.Println(headerStyle.Render("Models:"))
	for _, m := range newestFirstModels(models) {
		line := fmt.Sprintf("  [%d] %s", m.ID, m.Name)
		if m.Description != "" {
			line += "  " + dimLabel(m.Description)
		}
		fmt.Println(line)
	}
}

// newestFirstModels orders by descending id so recent registrations lead.
func newestFirstModels(models []api.Model) []api.Model {
	out := make([]api.Model, len(models))
	copy(out, models)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func init() {
	listCmd.AddCommand(listModelsCmd)
}
