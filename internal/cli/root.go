package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "trendvision-mcp",
	Short: "MCP server for Trend Vision One workbench alerts",
	Long: `trendvision-mcp - Trend Vision One alerts for MCP clients

Exposes workbench alerts to IDE and desktop agents over the Model Context
Protocol. Alert details are enriched with their investigation notes and a
summary of findings, impact and recommended actions.

Tools:
  get-system-instructions  Recommended defaults for listing alerts
  get-alerts-list          Filter, sort and page through alerts
  get-alert-details        Alert + notes + investigation summary
  add-alert-note           Append a note and read the note log back

Configuration is read from TRENDVISION_* environment variables, a .env file
or --config. TRENDVISION_API_TOKEN is required.

Quick Start:
  trendvision-mcp serve            Start the MCP server on stdio
  trendvision-mcp install claude   Register the server with Claude Desktop
  trendvision-mcp alerts list      Query alerts from the terminal`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file to load (default .env if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(stubAPICmd)
	// installCmd and uninstallCmd are registered in install.go
}
