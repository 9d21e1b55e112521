package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/equitydesk/equitydesk/pkg/config"
)

var (
	// Global flags
	configFile string
	verbose    bool
	offline    bool
)

// rootCmd runs the terminal UI when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "equitydesk",
	Short: "EquityDesk - equity positions and order execution",
	Long: `EquityDesk

Terminal client for an equity positions backend: browse the current
positions and submit INSERT/UPDATE/CANCEL order instructions. When the
backend is unreachable the client falls back to a local fixture.

Examples:
  equitydesk
  equitydesk positions --json
  equitydesk order --trade-id 42 --symbol AAPL --quantity 10 --action INSERT --type BUY
  equitydesk serve --store badger`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env (best-effort). If missing, fall back to real env vars.
		_ = godotenv.Load()
		if configFile != "" {
			config.SetConfigPath(configFile)
		}
	},
	RunE: runTUI,
}

// Execute is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml or json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "use the in-process fixture instead of the backend")
}
