package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/config"
)

var (
	configPath string
	envFile    string
	dbPath     string
	useRemote  bool

	// cfg is loaded once per invocation before any command runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "legendscope",
	Short: "League of Legends playstyle and faultlines analytics",
	Long: `Score a player's recent ranked matches into playstyle axes, faultlines
indices and battle-history summaries. Analyses run against the local match
cache (see 'import' and 'fetch') or, with --remote, directly against the
profile and match Lambdas.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before environment overrides")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.legendscope/legendscope.db)")
	rootCmd.PersistentFlags().BoolVar(&useRemote, "remote", false, "read profiles and matches from the Lambda API instead of the local cache")

	rootCmd.AddCommand(
		serveCmd,
		importCmd,
		fetchCmd,
		playstyleCmd,
		faultlinesCmd,
		battlesCmd,
		trendCmd,
		baselinesCmd,
		listCmd,
		snapshotsCmd,
		showCmd,
		summaryCmd,
		analyzeCmd,
		sqlCmd,
		dropCmd,
		shellCmd,
	)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath, envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.Storage.Path = dbPath
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))
	return nil
}
