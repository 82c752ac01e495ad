// internal/cli/list_prompts.go
package evalview

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/util"
)

// listPromptsCmd implements 'list prompts'.
var listPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the prompt templates registered on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts, err := newClient().ListPrompts(context.Background())
		if err != nil {
			return err
		}
		debugDump(prompts)
		printPrompts(prompts)
		return nil
	},
}

func printPrompts(prompts []api.Prompt) {
	if len(prompts) == 0 {
		fmt.Println("No prompts registered. Run 'evalview seed' to create the starter set.")
		return
	}
	sorted := make([]api.Prompt, len(prompts))
	copy(sorted, prompts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	fmt.Println(headerStyle.Render("Prompts:"))
	for _, p := range sorted {
		fmt.Printf("  [%d] %s\n", p.ID, p.Name)
		if p.Description != "" {
			fmt.Println("      " + dimLabel(p.Description))
		}
		if p.Template != "" {
			fmt.Println("      " + dimLabel(util.FirstLine(p.Template, 76)))
		}
	}
}

func init() {
	listCmd.AddCommand(listPromptsCmd)
}
