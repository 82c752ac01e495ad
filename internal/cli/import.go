// internal/cli/import.go
package evalview

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/inputset"
)

// importCmd implements 'import <file>': validate a local input-set JSON
// definition and create the set with all its inputs on the backend.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create an input set from a local JSON definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := inputset.LoadFile(args[0])
		if err != nil {
			return err
		}
		debugDump(file)

		client := newClient()
		ctx := context.Background()

		set, err := client.CreateInputSet(ctx, file.Name, file.Description)
		if err != nil {
			return err
		}
		for _, in := range file.Inputs {
			if _, err := client.AddInputToSet(ctx, set.ID, in.Text, in.Name); err != nil {
				return fmt.Errorf("add input %q to set %d: %w", in.Name, set.ID, err)
			}
		}
		fmt.Printf("Created input set [%d] %s with %d inputs\n", set.ID, set.Name, len(file.Inputs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
