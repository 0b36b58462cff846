package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jief123/agenthub/internal/config"
	"github.com/jief123/agenthub/internal/logging"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// v holds settings from defaults, the config file, the environment and the
// persistent flags bound below.
var v = config.New()

// cfg is loaded once per invocation by the root PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "agenthub",
	Short: "A registry for AI agent skills, MCP servers and agents",
	Long: `AgentHub catalogs agent assets and installs them into AI coding tools.

Import skills in bulk from git repositories, publish MCP server and agent
packages, search the catalog, and install any of it into a tool such as
Kiro at workspace or global scope.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = loaded

		format, _ := logging.ParseFormat(cfg.Log.Format)
		slog.SetDefault(logging.New(
			logging.WithFormat(format),
			logging.WithLevel(logging.ParseLevel(cfg.Log.Level)),
		))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agenthub %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/agenthub/config.yaml)")
	pf.String("data-dir", "", "Directory holding the catalog")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")

	bindFlag(config.KeyConfigFile, "config")
	bindFlag(config.KeyDataDir, "data-dir")
	bindFlag(config.KeyLogLevel, "log-level")
	bindFlag(config.KeyLogFormat, "log-format")

	rootCmd.AddCommand(versionCmd)
}

func bindFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
