package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/saeedalam/trendvision-mcp/internal/alerts"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the recommended alert list defaults",
	Long: `Print the same payload the get-system-instructions tool returns.
No configuration or network access is needed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd, alerts.Defaults(time.Now()))
	},
}
