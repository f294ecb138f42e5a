package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwcastillo/imposter/pkg/config"
)

var validateConfigDir string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration files without starting the server",
	Long: `Validate configuration files without starting the server.

Every configuration file under the directory is checked against the
configuration schema and the semantic rules (operator names, JSONPath and
regular expression syntax, delay ranges). All problems are reported, not
just the first.`,
	Example: `  # Validate the current directory
  imposter validate

  # Validate a specific directory
  imposter validate --config-dir ./mocks`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateConfigDir, "config-dir", "c", ".", "Directory scanned for configuration files")
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths, err := config.Discover(validateConfigDir)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range paths {
		if _, err := config.LoadFile(path); err != nil {
			failed++
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d configuration files invalid", failed, len(paths))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d configuration files valid\n", len(paths))
	return nil
}
