package cli

import (
	"os"

	"github.com/jheysaaz/snippy-backend-sub001/internal/logger"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	dryRun     bool
	cfgFile    string
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "snippyctl",
	Short: "Operations CLI for the snippy backend",
	Long: `snippyctl deploys the snippy backend service and manages its
operational surroundings: the systemd unit or compose service, TLS
certificates for the API and Postgres, Let's Encrypt issuance and
renewal, and the renewal cron entry.

Configuration is read from snippy.yaml in the working directory
(override with --config); built-in defaults apply when no file exists.`,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show planned operations without applying them")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default ./snippy.yaml)")
}
