package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/asset"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage MCP server packages",
	Long:  `Publish MCP server packages to the catalog and install them into tools.`,
}

// ---------------------------------------------------------------------------
// mcp publish
// ---------------------------------------------------------------------------

var mcpPublishCmd = &cobra.Command{
	Use:   "publish <file>",
	Short: "Publish an MCP server package",
	Long: `Add an MCP server package (YAML or JSON) to the catalog.

Example package:
  name: github
  description: GitHub API access
  transport: stdio
  config:
    command: npx
    args: ["-y", "@modelcontextprotocol/server-github"]
    env:
      GITHUB_TOKEN: ""

Examples:
  agenthub mcp publish github.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		pkg, err := asset.LoadMCPPackage(args[0])
		if err != nil {
			return err
		}
		entry, err := d.importer.PublishMCP(cmd.Context(), pkg, resolveOwner(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s MCP server %s\n", successStyle.Render("Published"), entry.Name)
		return nil
	},
}

// ---------------------------------------------------------------------------
// mcp list
// ---------------------------------------------------------------------------

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List MCP servers in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		entries, err := d.store.List(cmd.Context(), asset.KindMCP)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stdout, "No MCP servers in the catalog.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tDESCRIPTION")
		for _, e := range entries {
			typ := "remote"
			if e.MCP != nil && e.MCP.Config.IsStdio() {
				typ = "stdio"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, typ, truncate(e.Description, 60))
		}
		return w.Flush()
	},
}

// ---------------------------------------------------------------------------
// mcp add
// ---------------------------------------------------------------------------

var mcpAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Install an MCP server into a tool's config",
	Long: `Merge an MCP server into the tool's MCP config file. The server comes
from the catalog by name, or from a package file with --file. Existing
entries with the same name are replaced; comments and other servers are
kept.

Examples:
  agenthub mcp add github
  agenthub mcp add --file ./github.yaml --scope global`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(cmd)
		if err != nil {
			return err
		}

		var pkg *asset.MCPPackage
		file, _ := cmd.Flags().GetString("file")
		switch {
		case file != "" && len(args) == 1:
			return fmt.Errorf("pass either a name or --file, not both")
		case file != "":
			if pkg, err = asset.LoadMCPPackage(file); err != nil {
				return err
			}
		case len(args) == 1:
			d, err := newDeps()
			if err != nil {
				return err
			}
			entry, err := d.store.FindByName(cmd.Context(), asset.KindMCP, args[0])
			if err != nil {
				return err
			}
			if entry.MCP == nil {
				return fmt.Errorf("mcp %q has no server config", entry.Name)
			}
			pkg = entry.MCP
		default:
			return fmt.Errorf("an MCP server name or --file is required")
		}

		if err := t.adapter.InstallMCP(pkg.Servers(), t.scope); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Installed MCP server %s for %s (%s):\n", pkg.Name, t.adapter.Name(), t.scope)
		fmt.Fprintf(os.Stdout, "  + %s\n", t.adapter.MCPConfigPath(t.scope))
		printEnvHints(pkg.Name, pkg.Config)
		return nil
	},
}

// ---------------------------------------------------------------------------
// mcp remove
// ---------------------------------------------------------------------------

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an MCP server from a tool's config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(cmd)
		if err != nil {
			return err
		}
		if err := t.adapter.RemoveMCP(args[0], t.scope); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed MCP server %s from %s (%s)\n", args[0], t.adapter.Name(), t.scope)
		return nil
	},
}

func init() {
	mcpPublishCmd.Flags().String("owner", "", "Owner recorded on the entry (default from config)")

	mcpAddCmd.Flags().String("file", "", "Install from a package file instead of the catalog")
	addTargetFlags(mcpAddCmd, false)
	addTargetFlags(mcpRemoveCmd, false)

	mcpCmd.AddCommand(mcpPublishCmd)
	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpAddCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)
	rootCmd.AddCommand(mcpCmd)
}
