// internal/cli/list_inputsets.go
package evalview

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// listInputSetsCmd implements 'list input-sets'.
var listInputSetsCmd = &cobra.Command{
	Use:   "input-sets",
	Short: "List input sets with their input counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := context.Background()

		sets, err := client.ListInputSets(ctx)
		if err != nil {
			return err
		}
		debugDump(sets)
		if len(sets) == 0 {
			fmt.Println("No input sets.")
			return nil
		}
		sort.Slice(sets, func(i, j int) bool { return sets[i].ID > sets[j].ID })

		fmt.Println(headerStyle.Render("Input sets:"))
		for _, s := range sets {
			detail, err := client.GetInputSet(ctx, s.ID)
			if err != nil {
				fmt.Printf("  [%d] %s  %s\n", s.ID, s.Name, badLabel(fmt.Sprintf("(error: %v)", err)))
				continue
			}
			line := fmt.Sprintf("  [%d] %s  (%d inputs)", s.ID, s.Name, len(detail.Inputs))
			if s.Description != "" {
				line += "  " + dimLabel(s.Description)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(listInputSetsCmd)
}
