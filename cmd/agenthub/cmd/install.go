package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/asset"
)

// ---------------------------------------------------------------------------
// add
// ---------------------------------------------------------------------------

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Install a skill from the catalog into a tool",
	Long: `Fetch a catalog skill from its recorded source and install it.

With --method symlink (the default) the files are cached under
.agenthub/cache and linked into the tool's skills directory; --method
copy writes them in place.

Examples:
  agenthub add pdf-tools
  agenthub add pdf-tools --scope global
  agenthub add pdf-tools --method copy --dir ./my-project`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		t, err := resolveTarget(cmd)
		if err != nil {
			return err
		}

		entry, err := d.store.FindByName(cmd.Context(), asset.KindSkill, args[0])
		if err != nil {
			return err
		}
		pkg, err := d.importer.SkillPackage(cmd.Context(), entry)
		if err != nil {
			return err
		}

		path, err := t.adapter.InstallSkill(pkg.Files, pkg.Name, t.scope, t.method)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Installed %s for %s (%s):\n", pkg.Name, t.adapter.Name(), t.scope)
		fmt.Fprintf(os.Stdout, "  + %s\n", path)
		if hint := t.adapter.PostInstallHint(); hint != "" {
			fmt.Fprintf(os.Stdout, "\n%s\n", mutedStyle.Render(hint))
		}
		return nil
	},
}

// ---------------------------------------------------------------------------
// remove
// ---------------------------------------------------------------------------

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an installed skill from a tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(cmd)
		if err != nil {
			return err
		}
		if err := t.adapter.RemoveSkill(args[0], t.scope); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed %s from %s (%s)\n", args[0], t.adapter.Name(), t.scope)
		return nil
	},
}

// ---------------------------------------------------------------------------
// list
// ---------------------------------------------------------------------------

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills installed in a tool",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(cmd)
		if err != nil {
			return err
		}
		skills, err := t.adapter.InstalledSkills(t.scope)
		if err != nil {
			return err
		}
		if len(skills) == 0 {
			fmt.Fprintf(os.Stdout, "No skills installed for %s (%s).\n", t.adapter.Name(), t.scope)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMETHOD\tDESCRIPTION")
		for _, s := range skills {
			method := "copy"
			if s.Linked {
				method = "symlink"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, method, truncate(s.Description, 60))
		}
		return w.Flush()
	},
}

func init() {
	addTargetFlags(addCmd, true)
	addTargetFlags(removeCmd, false)
	addTargetFlags(listCmd, false)

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
}
