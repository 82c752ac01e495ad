// internal/cli/delete.go
package evalview

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd groups the resource-deletion subcommands.
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete prompts, inputs, and input sets from the backend",
}

// deletePromptCmd implements 'delete prompt <id>'.
var deletePromptCmd = &cobra.Command{
	Use:   "prompt <prompt-id>",
	Short: "Delete a prompt and its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "prompt id")
		if err != nil {
			return err
		}
		if err := newClient().DeletePrompt(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted prompt %d\n", id)
		return nil
	},
}

// deleteInputCmd implements 'delete input <id>'.
var deleteInputCmd = &cobra.Command{
	Use:   "input <input-id>",
	Short: "Delete an input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "input id")
		if err != nil {
			return err
		}
		if err := newClient().DeleteInput(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted input %d\n", id)
		return nil
	},
}

// deleteInputSetCmd implements 'delete input-set <id>'.
var deleteInputSetCmd = &cobra.Command{
	Use:   "input-set <set-id>",
	Short: "Delete an input set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "input set id")
		if err != nil {
			return err
		}
		if err := newClient().DeleteInputSet(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted input set %d\n", id)
		return nil
	},
}

func init() {
	deleteCmd.AddCommand(deletePromptCmd)
	deleteCmd.AddCommand(deleteInputCmd)
	deleteCmd.AddCommand(deleteInputSetCmd)
	rootCmd.AddCommand(deleteCmd)
}
