package cli

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saeedalam/trendvision-mcp/internal/alerts"
	"github.com/saeedalam/trendvision-mcp/internal/config"
	"github.com/saeedalam/trendvision-mcp/internal/gateway"
	"github.com/saeedalam/trendvision-mcp/internal/logging"
)

// app holds what every API-facing command needs, resolved once
type app struct {
	cfg    config.Config
	logger *zap.Logger
	alerts *alerts.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, err
	}

	if exp, ok := cfg.API.TokenExpiry(); ok {
		if time.Now().After(exp) {
			logger.Warn("API token has expired", zap.Time("expired_at", exp))
		} else {
			logger.Debug("API token expiry", zap.Time("expires_at", exp))
		}
	}

	client := gateway.New(cfg.API.Token, nil, logger)
	return &app{
		cfg:    cfg,
		logger: logger,
		alerts: alerts.NewService(client, cfg.API.BaseURL, logger),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
