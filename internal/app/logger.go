package app

import (
	"os"

	"fuel-delivery-service/internal/config"
	"fuel-delivery-service/internal/logx"
)

// NewLogger builds the JSON process logger at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, cfg.LogLevel).With(logx.String("env", cfg.Env))
}
