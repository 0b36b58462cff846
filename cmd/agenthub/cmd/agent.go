package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/adapter"
	"github.com/jief123/agenthub/internal/core/asset"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage agent packages",
	Long: `Publish agent packages and install them, with their embedded skills
and MCP servers, into a tool.`,
}

// ---------------------------------------------------------------------------
// agent publish
// ---------------------------------------------------------------------------

var agentPublishCmd = &cobra.Command{
	Use:   "publish <file>",
	Short: "Publish an agent package",
	Long: `Add an agent package (YAML or JSON) to the catalog.

Example package:
  name: reviewer
  description: Reviews pull requests
  prompt: You review Go code for correctness.
  embedded_skills:
    - name: go-review
      files:
        SKILL.md: |
          ---
          name: go-review
          description: Go review checklist
          ---
  embedded_mcps:
    - name: github
      config:
        command: npx
        args: ["-y", "@modelcontextprotocol/server-github"]

Examples:
  agenthub agent publish reviewer.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		pkg, err := asset.LoadAgentPackage(args[0])
		if err != nil {
			return err
		}
		entry, err := d.importer.PublishAgent(cmd.Context(), pkg, resolveOwner(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s agent %s\n", successStyle.Render("Published"), entry.Name)
		return nil
	},
}

// ---------------------------------------------------------------------------
// agent list
// ---------------------------------------------------------------------------

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		entries, err := d.store.List(cmd.Context(), asset.KindAgent)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stdout, "No agents in the catalog.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSKILLS\tMCPS\tDESCRIPTION")
		for _, e := range entries {
			var skills, mcps int
			if e.Agent != nil {
				skills, mcps = len(e.Agent.Skills), len(e.Agent.MCPs)
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", e.Name, skills, mcps, truncate(e.Description, 50))
		}
		return w.Flush()
	},
}

// ---------------------------------------------------------------------------
// agent add
// ---------------------------------------------------------------------------

var agentAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Install an agent with its skills and MCP servers",
	Long: `Install an agent into a tool: its embedded skills first, then its MCP
servers, then the agent config file. Steps completed before a failure
are reported and left in place.

Examples:
  agenthub agent add reviewer
  agenthub agent add --file ./reviewer.yaml --method copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(cmd)
		if err != nil {
			return err
		}

		var pkg *asset.AgentPackage
		file, _ := cmd.Flags().GetString("file")
		switch {
		case file != "" && len(args) == 1:
			return fmt.Errorf("pass either a name or --file, not both")
		case file != "":
			if pkg, err = asset.LoadAgentPackage(file); err != nil {
				return err
			}
		case len(args) == 1:
			d, err := newDeps()
			if err != nil {
				return err
			}
			entry, err := d.store.FindByName(cmd.Context(), asset.KindAgent, args[0])
			if err != nil {
				return err
			}
			if entry.Agent == nil {
				return fmt.Errorf("agent %q has no package", entry.Name)
			}
			pkg = entry.Agent
		default:
			return fmt.Errorf("an agent name or --file is required")
		}

		summary, installErr := t.adapter.InstallAgentConfig(pkg, t.scope, t.method)
		printInstallSummary(pkg.Name, t.scope, summary)
		if installErr != nil {
			return installErr
		}
		for _, m := range pkg.MCPs {
			printEnvHints(m.Name, m.Config)
		}
		return nil
	},
}

func printInstallSummary(name string, scope adapter.Scope, s *adapter.InstallSummary) {
	if s == nil {
		return
	}
	fmt.Fprintf(os.Stdout, "Agent %s for %s (%s):\n", name, s.Tool, scope)
	for _, skill := range s.SkillsInstalled {
		fmt.Fprintf(os.Stdout, "  + skill %s\n", skill)
	}
	for _, m := range s.MCPsInstalled {
		fmt.Fprintf(os.Stdout, "  + mcp %s\n", m)
	}
	if s.AgentConfigPath != "" {
		fmt.Fprintf(os.Stdout, "  + %s\n", s.AgentConfigPath)
	} else {
		fmt.Fprintf(os.Stdout, "  %s agent config not written\n", errorStyle.Render("x"))
	}
	if s.Hints != "" {
		fmt.Fprintf(os.Stdout, "\n%s\n", mutedStyle.Render(strings.TrimSpace(s.Hints)))
	}
}

func init() {
	agentPublishCmd.Flags().String("owner", "", "Owner recorded on the entry (default from config)")

	agentAddCmd.Flags().String("file", "", "Install from a package file instead of the catalog")
	addTargetFlags(agentAddCmd, true)

	agentCmd.AddCommand(agentPublishCmd)
	agentCmd.AddCommand(agentListCmd)
	agentCmd.AddCommand(agentAddCmd)
	rootCmd.AddCommand(agentCmd)
}
