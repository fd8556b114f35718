package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saeedalam/trendvision-mcp/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for IDE integration",
	Long: `Start the MCP (Model Context Protocol) server.

The server communicates via stdio (standard input/output) using JSON-RPC.
Diagnostics are written to stderr as JSON log lines.

Examples:
  trendvision-mcp serve
  TRENDVISION_API_BASE_URL=https://api.xdr.trendmicro.com trendvision-mcp serve
  trendvision-mcp serve --config /etc/trendvision.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(a.alerts, a.logger)

	// Run the server (blocks until stdin closes)
	if err := server.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Fatal error in server", zap.Error(err))
		return err
	}
	return nil
}
