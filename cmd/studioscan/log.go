package main

import (
	"studioscan/internal/config"
	"studioscan/internal/logging"
)

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
}
