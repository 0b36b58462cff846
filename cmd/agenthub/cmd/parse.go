package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/manifest"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Validate a SKILL.md and print its metadata",
	Long: `Parse a skill manifest and report its fields, or the first problem
found.

Examples:
  agenthub parse SKILL.md
  agenthub parse skills/pdf/SKILL.md --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := manifest.ParseFile(args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := json.MarshalIndent(map[string]any{
				"name":          meta.Name,
				"description":   meta.Description,
				"version":       meta.Version,
				"license":       meta.License,
				"compatibility": meta.Compatibility,
				"metadata":      meta.Extra,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling metadata: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(data))
			return nil
		}

		fmt.Fprintf(os.Stdout, "name:        %s\n", meta.Name)
		fmt.Fprintf(os.Stdout, "description: %s\n", meta.Description)
		if meta.Version != "" {
			fmt.Fprintf(os.Stdout, "version:     %s\n", meta.Version)
		}
		if meta.License != "" {
			fmt.Fprintf(os.Stdout, "license:     %s\n", meta.License)
		}
		if meta.Compatibility != "" {
			fmt.Fprintf(os.Stdout, "compat:      %s\n", meta.Compatibility)
		}
		if tags := meta.Tags(); len(tags) > 0 {
			fmt.Fprintf(os.Stdout, "tags:        %s\n", strings.Join(tags, ", "))
		}
		if len(meta.Extra) > 0 {
			keys := make([]string, 0, len(meta.Extra))
			for k := range meta.Extra {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stdout, "metadata:    %s\n", strings.Join(keys, ", "))
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().Bool("json", false, "Print metadata as JSON")
	rootCmd.AddCommand(parseCmd)
}
