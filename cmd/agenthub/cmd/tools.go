package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/adapter"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List supported tools and which are detected",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveTargetDir(cmd)
		if err != nil {
			return err
		}
		roots, err := adapter.DefaultRoots(dir)
		if err != nil {
			return err
		}

		detected := adapter.DetectInstalled(roots)
		for _, name := range adapter.Supported() {
			a, err := adapter.Resolve(name, roots)
			if err != nil {
				return err
			}
			status := mutedStyle.Render("not detected")
			if slices.Contains(detected, name) {
				status = successStyle.Render("detected")
			}
			marker := " "
			if name == cfg.DefaultTool {
				marker = "*"
			}
			fmt.Fprintf(os.Stdout, "%s %-12s %s\n", marker, name, status)
			fmt.Fprintf(os.Stdout, "    skills: %s\n", a.SkillsDir(adapter.ScopeWorkspace))
			fmt.Fprintf(os.Stdout, "    mcp:    %s\n", a.MCPConfigPath(adapter.ScopeWorkspace))
		}
		return nil
	},
}

func init() {
	toolsCmd.Flags().String("dir", "", "Workspace directory (default: current directory)")
	rootCmd.AddCommand(toolsCmd)
}
