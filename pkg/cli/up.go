package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jwcastillo/imposter/pkg/logging"
	"github.com/jwcastillo/imposter/pkg/server"
)

var (
	upAddr              string
	upConfigDir         string
	upWatch             bool
	upScriptConcurrency int
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the mock server",
	Long: `Start the mock server.

Every *-config.yaml, *-config.yml, and *-config.json file under the
configuration directory is loaded, recursively. With --watch, changes to
the directory reload the configuration without dropping in-flight
requests.`,
	Example: `  # Serve the current directory on the default port
  imposter up

  # Serve a config directory on a custom port
  imposter up --config-dir ./mocks --listen :3000

  # Serve with hot reload
  imposter up --config-dir ./mocks --watch`,
	RunE: runUp,
}

func init() {
	rootCmd.AddCommand(upCmd)

	upCmd.Flags().StringVarP(&upAddr, "listen", "l", ":8080", "Listen address")
	upCmd.Flags().StringVarP(&upConfigDir, "config-dir", "c", ".", "Directory scanned for configuration files")
	upCmd.Flags().BoolVarP(&upWatch, "watch", "w", false, "Reload configuration on file changes")
	upCmd.Flags().IntVar(&upScriptConcurrency, "script-concurrency", 0, "Maximum concurrent script executions (0 = unbounded)")
}

func runUp(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.Format(logFormat),
	})

	srv, err := server.New(server.Options{
		Addr:              upAddr,
		ConfigDir:         upConfigDir,
		ScriptConcurrency: upScriptConcurrency,
		Watch:             upWatch,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
