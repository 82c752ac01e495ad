// internal/cli/seed.go
package evalview

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// seedPrompt is one of the stock prompts created for a fresh backend.
type seedPrompt struct {
	name        string
	template    string
	description string
}

// The backend substitutes the literal {{input}} marker when it renders a
// template, so every seed template must carry it.
var seedPrompts = []seedPrompt{
	{
		name:        "Basic Summary",
		template:    "Summarize the following text in 1-2 sentences: {{input}}",
		description: "Simple summarization",
	},
	{
		name:        "Bullet Points",
		template:    "Extract the key points from this text as a bulleted list: {{input}}",
		description: "Extract key points as bullet points",
	},
	{
		name:        "Professional Email",
		template:    "Reformat the following voice memo into a professional email: {{input}}",
		description: "Convert to formal email format",
	},
}

// seedCmd implements 'seed': create the starter prompts on an empty backend.
// A backend that already has prompts is left untouched so user-authored
// prompts are never duplicated.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the starter prompts on an empty backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := context.Background()

		existing, err := client.ListPrompts(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			fmt.Printf("Backend already has %d prompts; nothing to seed.\n", len(existing))
			return nil
		}

		for _, p := range seedPrompts {
			created, err := client.CreatePrompt(ctx, p.name, p.template, p.description)
			if err != nil {
				return fmt.Errorf("seed prompt %q: %w", p.name, err)
			}
			fmt.Printf("Created prompt [%d] %s\n", created.ID, created.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
