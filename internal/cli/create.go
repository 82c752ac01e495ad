// internal/cli/create.go
package evalview

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// createCmd groups the resource-creation subcommands.
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create models, prompts, input sets, and inputs on the backend",
}

var (
	createDescription string
	createTemplate    string
	createInputName   string
	createInputSetID  int64
)

// createModelCmd implements 'create model <name>'.
var createModelCmd = &cobra.Command{
	Use:   "model <name>",
	Short: "Register a model by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := newClient().CreateModel(context.Background(), args[0], createDescription)
		if err != nil {
			return err
		}
		debugDump(model)
		fmt.Printf("Created model [%d] %s\n", model.ID, model.Name)
		return nil
	},
}

// createPromptCmd implements 'create prompt <name>'. The template must
// contain the {{input}} placeholder the backend substitutes input text into.
var createPromptCmd = &cobra.Command{
	Use:   "prompt <name>",
	Short: "Create a prompt template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if createTemplate == "" {
			return fmt.Errorf("--template is required")
		}
		prompt, err := newClient().CreatePrompt(context.Background(), args[0], createTemplate, createDescription)
		if err != nil {
			return err
		}
		debugDump(prompt)
		fmt.Printf("Created prompt [%d] %s\n", prompt.ID, prompt.Name)
		return nil
	},
}

// createInputSetCmd implements 'create input-set <name>'.
var createInputSetCmd = &cobra.Command{
	Use:   "input-set <name>",
	Short: "Create an empty input set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := newClient().CreateInputSet(context.Background(), args[0], createDescription)
		if err != nil {
			return err
		}
		debugDump(set)
		fmt.Printf("Created input set [%d] %s\n", set.ID, set.Name)
		return nil
	},
}

// createInputCmd implements 'create input <text>', optionally into a set.
var createInputCmd = &cobra.Command{
	Use:   "input <text>",
	Short: "Create an input, optionally adding it to a set with --set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := context.Background()

		var err error
		var created any
		if createInputSetID > 0 {
			created, err = client.AddInputToSet(ctx, createInputSetID, args[0], createInputName)
		} else {
			created, err = client.CreateInput(ctx, args[0], createInputName)
		}
		if err != nil {
			return err
		}
		debugDump(created)
		fmt.Println("Created input.")
		return nil
	},
}

func init() {
	createCmd.PersistentFlags().StringVar(&createDescription, "description", "", "resource description")

	createPromptCmd.Flags().StringVar(&createTemplate, "template", "", "prompt template with an {{input}} placeholder")

	createInputCmd.Flags().StringVar(&createInputName, "name", "", "display name for the input")
	createInputCmd.Flags().Int64Var(&createInputSetID, "set", 0, "input set id to add the input to")

	createCmd.AddCommand(createModelCmd)
	createCmd.AddCommand(createPromptCmd)
	createCmd.AddCommand(createInputSetCmd)
	createCmd.AddCommand(createInputCmd)
	rootCmd.AddCommand(createCmd)
}
