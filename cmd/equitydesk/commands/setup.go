package commands

import (
	"fmt"

	"github.com/equitydesk/equitydesk/internal/services"
	"github.com/equitydesk/equitydesk/internal/views"
	"github.com/equitydesk/equitydesk/pkg/config"
	"github.com/equitydesk/equitydesk/pkg/logger"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// initLogging 初始化日志；TUI 模式下 console 必须为 false
func initLogging(cfg *config.Config, console bool) error {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logger.Init(logger.Config{
		Level:      level,
		OutputFile: cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
		Console:    console,
	})
}

func newPositionsService(cfg *config.Config) services.PositionsService {
	if offline {
		logger.Info("offline mode: serving the local fixture")
		return services.NewOfflinePositionsService()
	}
	return services.NewEquityPositionsServiceFromConfig(cfg.API)
}

func fallbackPolicy(cfg *config.Config) views.FallbackPolicy {
	return views.FallbackPolicy(cfg.UI.PositionsFallback)
}
