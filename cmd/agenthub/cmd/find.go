package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Search the catalog",
	Long: `Fuzzy-search catalog entries by name, description and tags. Without a
query every entry is listed.

Examples:
  agenthub find
  agenthub find pdf
  agenthub find github --kind mcp`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		kinds, err := resolveKinds(cmd)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		results, err := d.store.Search(cmd.Context(), query, kinds...)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(os.Stdout, "No matching entries.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tDESCRIPTION")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Entry.Kind, r.Entry.Name, truncate(r.Entry.Description, 60))
		}
		return w.Flush()
	},
}

func init() {
	findCmd.Flags().String("kind", "", "Comma-separated kinds to search: skill, mcp, agent")
	rootCmd.AddCommand(findCmd)
}
