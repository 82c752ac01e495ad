// internal/cli/prompts.go
package evalview

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfuller/evalview/internal/api"
	"github.com/mfuller/evalview/internal/util"
)

// promptsCmd groups the prompt inspection and versioning subcommands.
var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Inspect and version prompt templates",
}

var (
	promptEditName        string
	promptEditDescription string
	newVersionTemplate    string
	newVersionSystem      string
)

// promptShowCmd implements 'prompts show <id>': the prompt with every
// version, newest first.
var promptShowCmd = &cobra.Command{
	Use:   "show <prompt-id>",
	Short: "Show a prompt and all of its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "prompt id")
		if err != nil {
			return err
		}
		detail, err := newClient().GetPrompt(context.Background(), id)
		if err != nil {
			return err
		}
		debugDump(detail)
		printPromptDetail(detail)
		return nil
	},
}

func printPromptDetail(detail api.PromptDetail) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("[%d] %s", detail.ID, detail.Name)))
	if detail.Description != "" {
		fmt.Println("  " + dimLabel(detail.Description))
	}

	versions := make([]api.PromptVersion, len(detail.Versions))
	copy(versions, detail.Versions)
	sort.Slice(versions, func(i, j int) bool { return versions[i].VersionNumber > versions[j].VersionNumber })

	for _, v := range versions {
		fmt.Printf("  v%d (id %d):\n", v.VersionNumber, v.ID)
		fmt.Println(indentBlock(util.WrapToWidth(v.Template, 72), "    "))
		if v.SystemPrompt != "" {
			fmt.Println("    system: " + util.FirstLine(v.SystemPrompt, 68))
		}
	}
}

// promptVersionsCmd implements 'prompts versions <id>'.
var promptVersionsCmd = &cobra.Command{
	Use:   "versions <prompt-id>",
	Short: "List a prompt's versions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "prompt id")
		if err != nil {
			return err
		}
		versions, err := newClient().ListPromptVersions(context.Background(), id)
		if err != nil {
			return err
		}
		debugDump(versions)
		sort.Slice(versions, func(i, j int) bool { return versions[i].VersionNumber > versions[j].VersionNumber })
		for _, v := range versions {
			fmt.Printf("  v%d (id %d): %s\n", v.VersionNumber, v.ID, util.FirstLine(v.Template, 64))
		}
		return nil
	},
}

// promptNewVersionCmd implements 'prompts new-version <id>'. Versions only
// grow: the backend appends, it never rewrites an existing version.
var promptNewVersionCmd = &cobra.Command{
	Use:   "new-version <prompt-id>",
	Short: "Append a new version to a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "prompt id")
		if err != nil {
			return err
		}
		if newVersionTemplate == "" {
			return fmt.Errorf("--template is required")
		}
		version, err := newClient().CreatePromptVersion(context.Background(), id, newVersionTemplate, newVersionSystem)
		if err != nil {
			return err
		}
		debugDump(version)
		fmt.Printf("Created version v%d (id %d) of prompt %d\n", version.VersionNumber, version.ID, id)
		return nil
	},
}

// promptVersionCmd implements 'prompts version <version-id>': one version in
// full, template and system prompt included.
var promptVersionCmd = &cobra.Command{
	Use:   "version <version-id>",
	Short: "Show one prompt version in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "version id")
		if err != nil {
			return err
		}
		version, err := newClient().GetPromptVersion(context.Background(), id)
		if err != nil {
			return err
		}
		debugDump(version)
		fmt.Println(headerStyle.Render(fmt.Sprintf("v%d of prompt %d (id %d)", version.VersionNumber, version.PromptID, version.ID)))
		fmt.Println(indentBlock(util.WrapToWidth(version.Template, 72), "  "))
		if version.SystemPrompt != "" {
			fmt.Println("  system:")
			fmt.Println(indentBlock(util.WrapToWidth(version.SystemPrompt, 70), "    "))
		}
		return nil
	},
}

// promptEditCmd implements 'prompts edit <id>': rename or re-describe the
// prompt itself. Template changes go through new-version instead.
var promptEditCmd = &cobra.Command{
	Use:   "edit <prompt-id>",
	Short: "Update a prompt's name or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "prompt id")
		if err != nil {
			return err
		}
		if promptEditName == "" && promptEditDescription == "" {
			return fmt.Errorf("nothing to update: pass --name or --description")
		}
		prompt, err := newClient().UpdatePrompt(context.Background(), id, promptEditName, promptEditDescription)
		if err != nil {
			return err
		}
		debugDump(prompt)
		fmt.Printf("Updated prompt [%d] %s\n", prompt.ID, prompt.Name)
		return nil
	},
}

// parseID converts a positional argument into an id, naming the argument in
// the error so usage mistakes read clearly.
func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, raw)
	}
	return id, nil
}

func indentBlock(text, prefix string) string {
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}

func init() {
	promptNewVersionCmd.Flags().StringVar(&newVersionTemplate, "template", "", "template text for the new version")
	promptNewVersionCmd.Flags().StringVar(&newVersionSystem, "system", "", "system prompt for the new version")

	promptEditCmd.Flags().StringVar(&promptEditName, "name", "", "new prompt name")
	promptEditCmd.Flags().StringVar(&promptEditDescription, "description", "", "new prompt description")

	promptsCmd.AddCommand(promptShowCmd)
	promptsCmd.AddCommand(promptVersionsCmd)
	promptsCmd.AddCommand(promptVersionCmd)
	promptsCmd.AddCommand(promptNewVersionCmd)
	promptsCmd.AddCommand(promptEditCmd)
	rootCmd.AddCommand(promptsCmd)
}
