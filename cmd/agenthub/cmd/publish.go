package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/importer"
	"github.com/jief123/agenthub/internal/core/manifest"
)

var publishCmd = &cobra.Command{
	Use:   "publish [dir]",
	Short: "Publish a single skill directory",
	Long: `Add the skill in dir (default: current directory) to the catalog.

The directory must contain a SKILL.md. When it lives inside a git
checkout, the origin URL, commit and path are recorded so the skill can
be installed later.

Examples:
  agenthub publish
  agenthub publish ./skills/pdf-tools --owner docs-team`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		dir, err = filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolving directory: %w", err)
		}

		info := d.fetcher.Inspect(cmd.Context(), dir)
		if info.CloneURL() == "" {
			fmt.Fprintf(os.Stderr, "Warning: %s is not in a git repository; the skill cannot be installed from the catalog\n", dir)
		}

		entry, err := d.importer.Publish(cmd.Context(), importer.PublishRequest{
			ManifestPath: filepath.Join(dir, manifest.FileName),
			GitURL:       info.CloneURL(),
			CommitHash:   info.Commit,
			Path:         info.Path,
			OwnerID:      resolveOwner(cmd),
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%s skill %s\n", successStyle.Render("Published"), entry.Name)
		return nil
	},
}

func init() {
	publishCmd.Flags().String("owner", "", "Owner recorded on the entry (default from config)")
	rootCmd.AddCommand(publishCmd)
}
