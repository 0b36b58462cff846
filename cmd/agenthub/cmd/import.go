package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/source"
)

var importCmd = &cobra.Command{
	Use:   "import <source>",
	Short: "Import every skill found in a git repository",
	Long: `Clone a repository and add each SKILL.md it contains to the catalog.

Skills whose name is already taken are skipped, as are malformed
manifests. The source may be a GitHub shorthand, an HTTPS or SSH URL,
or a local repository path.

Examples:
  agenthub import acme/skills
  agenthub import acme/skills#v1.2.0
  agenthub import https://github.com/acme/skills.git --ref main
  agenthub import git@github.com:acme/skills.git --owner platform-team`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		src, err := source.ParseSource(args[0])
		if err != nil {
			return fmt.Errorf("invalid source: %w", err)
		}
		if ref, _ := cmd.Flags().GetString("ref"); ref != "" {
			src.Ref = ref
		}

		created, err := d.importer.ImportFromSourceRef(cmd.Context(), src.CloneURL, src.Ref, resolveOwner(cmd))
		if err != nil {
			return err
		}

		if len(created) == 0 {
			fmt.Fprintf(os.Stdout, "No new skills found in %s\n", src.Input)
			return nil
		}
		fmt.Fprintf(os.Stdout, "Imported %d skill(s) from %s:\n", len(created), src.Input)
		for _, e := range created {
			fmt.Fprintf(os.Stdout, "  + %s %s\n", e.Name, mutedStyle.Render("("+e.Path+")"))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("ref", "", "Branch or tag to import (default: the source's ref or default branch)")
	importCmd.Flags().String("owner", "", "Owner recorded on created entries (default from config)")
	rootCmd.AddCommand(importCmd)
}
