// internal/cli/list.go
package evalview

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// listCmd groups the read-only listing subcommands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered models, prompts, input sets, inputs, and evaluations",
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))

var (
	goodLabel = color.New(color.FgGreen).SprintFunc()
	okLabel   = color.New(color.FgYellow).SprintFunc()
	badLabel  = color.New(color.FgRed).SprintFunc()
	dimLabel  = color.New(color.Faint).SprintFunc()
)

func init() {
	rootCmd.AddCommand(listCmd)
}
