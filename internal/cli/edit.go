// internal/cli/edit.go
package evalview

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// editCmd groups the in-place update subcommands. Prompt template edits are
// deliberately absent: those go through 'prompts new-version'.
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Update an input's or input set's fields in place",
}

var (
	editName        string
	editDescription string
	editText        string
)

// editInputCmd implements 'edit input <id>'.
var editInputCmd = &cobra.Command{
	Use:   "input <input-id>",
	Short: "Update an input's name or text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "input id")
		if err != nil {
			return err
		}
		if editName == "" && editText == "" {
			return fmt.Errorf("nothing to update: pass --name or --text")
		}
		input, err := newClient().UpdateInput(context.Background(), id, editText, editName)
		if err != nil {
			return err
		}
		debugDump(input)
		fmt.Printf("Updated input %d\n", input.ID)
		return nil
	},
}

// editInputSetCmd implements 'edit input-set <id>'.
var editInputSetCmd = &cobra.Command{
	Use:   "input-set <set-id>",
	Short: "Update an input set's name or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "input set id")
		if err != nil {
			return err
		}
		if editName == "" && editDescription == "" {
			return fmt.Errorf("nothing to update: pass --name or --description")
		}
		set, err := newClient().UpdateInputSet(context.Background(), id, editName, editDescription)
		if err != nil {
			return err
		}
		debugDump(set)
		fmt.Printf("Updated input set [%d] %s\n", set.ID, set.Name)
		return nil
	},
}

func init() {
	editCmd.PersistentFlags().StringVar(&editName, "name", "", "new name")
	editInputCmd.Flags().StringVar(&editText, "text", "", "new input text")
	editInputSetCmd.Flags().StringVar(&editDescription, "description", "", "new description")

	editCmd.AddCommand(editInputCmd)
	editCmd.AddCommand(editInputSetCmd)
	rootCmd.AddCommand(editCmd)
}
