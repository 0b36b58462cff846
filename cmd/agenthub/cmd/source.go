package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/core/catalog"
	"github.com/jief123/agenthub/internal/core/source"
	"github.com/jief123/agenthub/internal/core/syncer"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage repositories that are re-imported periodically",
	Long: `Register git repositories to keep the catalog current. A sync re-imports
every source whose interval has elapsed; only new skills are added.`,
}

// ---------------------------------------------------------------------------
// source add
// ---------------------------------------------------------------------------

var sourceAddCmd = &cobra.Command{
	Use:   "add <source>",
	Short: "Register a sync source",
	Long: `Register a repository for periodic import.

Examples:
  agenthub source add acme/skills
  agenthub source add https://github.com/acme/skills.git --ref main --interval 6h`,
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
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			interval = cfg.Sync.Interval
		}

		if err := d.store.AddSource(cmd.Context(), &catalog.SyncSource{
			URL:      src.CloneURL,
			Ref:      src.Ref,
			OwnerID:  resolveOwner(cmd),
			Interval: interval,
			Active:   true,
		}); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Added source %s (every %s)\n", src.CloneURL, interval)
		return nil
	},
}

// ---------------------------------------------------------------------------
// source list
// ---------------------------------------------------------------------------

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sync sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		sources, err := d.store.ListSources(cmd.Context())
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Fprintln(os.Stdout, "No sources registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "URL\tREF\tINTERVAL\tLAST SYNC\tSTATUS")
		for _, s := range sources {
			last := "never"
			if !s.LastSyncedAt.IsZero() {
				last = s.LastSyncedAt.Local().Format(time.DateTime)
			}
			status := "ok"
			if s.LastError != "" {
				status = "error: " + truncate(s.LastError, 40)
			}
			ref := s.Ref
			if ref == "" {
				ref = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.URL, ref, s.Interval, last, status)
		}
		return w.Flush()
	},
}

// ---------------------------------------------------------------------------
// source remove
// ---------------------------------------------------------------------------

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Unregister a sync source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		url := args[0]
		if src, err := source.ParseSource(url); err == nil {
			url = src.CloneURL
		}
		if err := d.store.RemoveSource(cmd.Context(), url); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed source %s\n", url)
		return nil
	},
}

// ---------------------------------------------------------------------------
// source sync
// ---------------------------------------------------------------------------

var sourceSyncCmd = &cobra.Command{
	Use:   "sync [url]",
	Short: "Re-import sources that are due",
	Long: `Re-import every active source whose interval has elapsed, or only the
named source, immediately. With --watch (or sync.enabled in the config)
keep running and check again on every sync interval until interrupted.

Examples:
  agenthub source sync
  agenthub source sync https://github.com/acme/skills.git
  agenthub source sync --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		s := d.syncer()

		if len(args) == 1 {
			src, err := findSource(cmd, d, args[0])
			if err != nil {
				return err
			}
			res, err := s.Sync(cmd.Context(), src)
			if err != nil {
				return err
			}
			printSyncResults([]syncer.Result{res})
			return nil
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if watch || cfg.Sync.Enabled {
			fmt.Fprintf(os.Stdout, "Syncing sources every %s; press Ctrl+C to stop.\n", cfg.Sync.Interval)
			return s.Run(cmd.Context())
		}

		results, err := s.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		printSyncResults(results)
		return nil
	},
}

func findSource(cmd *cobra.Command, d *deps, arg string) (*catalog.SyncSource, error) {
	url := arg
	if src, err := source.ParseSource(arg); err == nil {
		url = src.CloneURL
	}
	sources, err := d.store.ListSources(cmd.Context())
	if err != nil {
		return nil, err
	}
	for _, s := range sources {
		if s.URL == url {
			return s, nil
		}
	}
	return nil, fmt.Errorf("source %q: %w", url, catalog.ErrNotFound)
}

func printSyncResults(results []syncer.Result) {
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No sources due.")
		return
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stdout, "  %s %s: %v\n", errorStyle.Render("x"), r.URL, r.Err)
			continue
		}
		fmt.Fprintf(os.Stdout, "  + %s: %d new skill(s)\n", r.URL, len(r.Created))
		for _, e := range r.Created {
			fmt.Fprintf(os.Stdout, "      %s\n", e.Name)
		}
	}
}

func init() {
	sourceAddCmd.Flags().String("ref", "", "Branch or tag to import")
	sourceAddCmd.Flags().String("owner", "", "Owner recorded on imported entries (default from config)")
	sourceAddCmd.Flags().Duration("interval", 0, "Sync interval (default from config)")

	sourceSyncCmd.Flags().Bool("watch", false, "Keep running and sync on every interval")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceSyncCmd)
	rootCmd.AddCommand(sourceCmd)
}
