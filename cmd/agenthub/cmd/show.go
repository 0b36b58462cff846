package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/asset"
	"github.com/jief123/agenthub/internal/core/catalog"
	"github.com/jief123/agenthub/internal/core/manifest"
	"github.com/jief123/agenthub/internal/core/render"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a catalog entry",
	Long: `Print an entry's details. Skills show their rendered README; MCP
servers and agents show their package.

Examples:
  agenthub show pdf-tools
  agenthub show github --kind mcp`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		kindFlag, _ := cmd.Flags().GetString("kind")
		kind, err := asset.ParseKind(kindFlag)
		if err != nil {
			return err
		}

		e, err := d.store.FindByName(cmd.Context(), kind, args[0])
		if err != nil {
			return err
		}
		printEntryHeader(e)

		switch kind {
		case asset.KindSkill:
			body := e.ReadmeContent
			if meta, err := manifest.Parse(e.ReadmeContent); err == nil {
				body = meta.Body
			}
			if strings.TrimSpace(body) != "" {
				width, _ := cmd.Flags().GetInt("width")
				fmt.Fprintln(os.Stdout)
				fmt.Fprint(os.Stdout, render.Terminal(body, width))
			}
			return nil
		case asset.KindMCP:
			return printJSON(e.MCP)
		default:
			return printJSON(e.Agent)
		}
	},
}

func printEntryHeader(e *catalog.Entry) {
	fmt.Fprintf(os.Stdout, "%s %s\n", titleStyle.Render(e.Name), mutedStyle.Render("("+string(e.Kind)+")"))
	if e.Description != "" {
		fmt.Fprintf(os.Stdout, "  %s\n", e.Description)
	}
	if e.Version != "" {
		fmt.Fprintf(os.Stdout, "  Version: %s\n", e.Version)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(os.Stdout, "  Tags:    %s\n", strings.Join(e.Tags, ", "))
	}
	if e.GitURL != "" {
		src := e.GitURL
		if e.Path != "" && e.Path != "." {
			src += " " + e.Path
		}
		fmt.Fprintf(os.Stdout, "  Source:  %s\n", src)
	}
	if e.CommitHash != "" {
		fmt.Fprintf(os.Stdout, "  Commit:  %s\n", e.CommitHash)
	}
	if e.OwnerID != "" {
		fmt.Fprintf(os.Stdout, "  Owner:   %s\n", e.OwnerID)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n%s\n", data)
	return nil
}

func init() {
	showCmd.Flags().String("kind", string(asset.KindSkill), "Entry kind: skill, mcp or agent")
	showCmd.Flags().Int("width", 80, "Wrap width for rendered Markdown")
	rootCmd.AddCommand(showCmd)
}
