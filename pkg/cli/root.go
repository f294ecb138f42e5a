package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	logLevel  string
	logFormat string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imposter",
	Short: "imposter is a scriptable mock server driven by declarative configuration",
	Long: `imposter serves mock HTTP APIs from declarative configuration files.

Resources declare predicates on the request path, method, headers, query
parameters, body, and template expressions; the most specific matching
resource wins and its response behaviour is served. Responses can be static
content, files, templates, or generated by scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}
