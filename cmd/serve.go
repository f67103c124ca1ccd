package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/server"
)

var (
	servePort int
	serveEnv  string
)

// version is set at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the battle, playstyle, faultlines, profile and text-generation
endpoints under the configured prefix (default /api). Stops gracefully on
SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	serveCmd.Flags().StringVar(&serveEnv, "environment", "development", "environment name reported by /health")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	deps := server.Deps{
		Analyses: a.analyzer,
		Text:     a.insights,
		Logger:   a.logger,
	}
	if a.remote != nil {
		deps.Profiles = a.remote
	}
	srv := server.New(server.Options{
		Prefix:      cfg.Server.Prefix,
		BodyLimit:   cfg.Server.BodyLimit,
		Compress:    cfg.Server.Compress,
		ReadTimeout: secs(cfg.Server.ReadTimeout),
		Environment: serveEnv,
		Version:     version,
	}, deps)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, cfg.Server.Addr())
}
