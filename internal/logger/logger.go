package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/openclaw/openclawctl/internal/config"
)

// New builds the root logger for the process. Component loggers are derived
// from it with log.With().Str("component", ...).
func New(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()
}
