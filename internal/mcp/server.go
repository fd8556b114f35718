package mcp

import (
	"context"
	"io"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/saeedalam/trendvision-mcp/internal/alerts"
)

const (
	serverName    = "trend-vision"
	serverVersion = "1.0.0"
)

// Server exposes the alert tools over MCP
type Server struct {
	mcp    *server.MCPServer
	alerts *alerts.Service
	logger *zap.Logger
	now    func() time.Time
}

// NewServer registers every tool against svc
func NewServer(svc *alerts.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcp: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		alerts: svc,
		logger: logger,
		now:    time.Now,
	}

	s.registerTools()
	return s
}

// Run serves MCP on the given streams until in is exhausted or ctx ends.
// Diagnostics go to the logger, never to out.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	s.logger.Info("Trend Vision MCP Server running on stdio")
	return stdio.Listen(ctx, in, out)
}
