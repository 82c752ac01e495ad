// internal/cli/list_inputs.go
package evalview

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/util"
)

var listInputsSetID int64

// listInputsCmd implements 'list inputs', scoped to a set with --set.
var listInputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "List inputs, optionally scoped to one input set",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := context.Background()

		var inputs []api.Input
		var err error
		if listInputsSetID > 0 {
			inputs, err = client.ListInputsInSet(ctx, listInputsSetID)
		} else {
			inputs, err = client.ListInputs(ctx)
		}
		if err != nil {
			return err
		}
		debugDump(inputs)
		printInputs(inputs)
		return nil
	},
}

func printInputs(inputs []api.Input) {
	if len(inputs) == 0 {
		fmt.Println("No inputs.")
		return
	}
	sorted := make([]api.Input, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	fmt.Println(headerStyle.Render("Inputs:"))
	for _, in := range sorted {
		name := in.Name
		if name == "" {
			name = fmt.Sprintf("Input #%d", in.ID)
		}
		fmt.Printf("  [%d] %s\n", in.ID, name)
		fmt.Println("      " + dimLabel(util.FirstLine(in.Text, 76)))
	}
}

func init() {
	listInputsCmd.Flags().Int64Var(&listInputsSetID, "set", 0, "input set id to scope the listing to")
	listCmd.AddCommand(listInputsCmd)
}
