package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saeedalam/trendvision-mcp/internal/logging"
	"github.com/saeedalam/trendvision-mcp/internal/stub"
)

var stubFlags struct {
	addr   string
	db     string
	seed   string
	token  string
	author string
}

var stubAPICmd = &cobra.Command{
	Use:   "stub-api",
	Short: "Run a local stand-in for the workbench alert API",
	Long: `Serve the workbench alert endpoints from a local sqlite database.

Point TRENDVISION_API_BASE_URL at the listen address to run the MCP server
without a Vision One tenant.

Examples:
  trendvision-mcp stub-api --seed testdata/alerts.yaml
  trendvision-mcp stub-api --db ./stub.db --token dev-token --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runStubAPI,
}

func init() {
	f := stubAPICmd.Flags()
	f.StringVar(&stubFlags.addr, "addr", "127.0.0.1:8080", "Listen address")
	f.StringVar(&stubFlags.db, "db", ":memory:", "sqlite database path")
	f.StringVar(&stubFlags.seed, "seed", "", "YAML file of alerts and notes to load at startup")
	f.StringVar(&stubFlags.token, "token", "", "Bearer token to require (empty accepts any request)")
	f.StringVar(&stubFlags.author, "author", "", "createdBy value for notes added through the API")
}

func runStubAPI(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		level = "info"
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := stub.NewStore(stubFlags.db)
	if err != nil {
		return err
	}
	defer store.Close()

	if stubFlags.seed != "" {
		n, err := store.LoadSeedFile(stubFlags.seed)
		if err != nil {
			return err
		}
		logger.Info("seed loaded", zap.String("file", stubFlags.seed), zap.Int("alerts", n))
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr: stubFlags.addr,
		Handler: stub.NewRouter(store, stub.Options{
			Token:  stubFlags.token,
			Author: stubFlags.author,
			Logger: logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stub api listening", zap.String("addr", stubFlags.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("stub api: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("stub api shutting down")
	return srv.Shutdown(shutdownCtx)
}
