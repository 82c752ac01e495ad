// internal/cli/tui.go
package evalview

import (
	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/cli"
)

var startWorkbench = cli.StartWorkbench

// tuiCmd represents the 'tui' command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive evaluation workbench",
	Long:  `The 'tui' command opens the full-screen workbench: pick an input set, select models and prompts, run the combinations, and evaluate the results in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startWorkbench(GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
