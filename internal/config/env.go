package config

import (
	"log/slog"
	"os"

	"github.com/danielpatrickdp/alien-probe/internal/logging"
)

// Settings are the process-level knobs read from the environment.
type Settings struct {
	DBPath    string
	GamePath  string
	LogLevel  string
	LogFormat string
	GRPCAddr  string
	HTTPAddr  string
}

// FromEnv reads PROBE_* variables, falling back to local defaults.
func FromEnv() Settings {
	return Settings{
		DBPath:    EnvOr("PROBE_DB", "alien_probe.db"),
		GamePath:  EnvOr("PROBE_GAME", ""),
		LogLevel:  EnvOr("PROBE_LOG_LEVEL", "info"),
		LogFormat: EnvOr("PROBE_LOG_FORMAT", "text"),
		GRPCAddr:  EnvOr("PROBE_GRPC_ADDR", "localhost:50061"),
		HTTPAddr:  EnvOr("PROBE_HTTP_ADDR", "localhost:8090"),
	}
}

// Logger builds the configured logger on stderr. Unknown levels fall back to info.
func (s Settings) Logger() *slog.Logger {
	level, err := logging.ParseLevel(s.LogLevel)
	log := logging.NewLogger(os.Stderr, level, s.LogFormat)
	if err != nil {
		log.Warn("bad log level, using info", "value", s.LogLevel)
	}
	return log
}

// EnvOr returns the environment value for key, or fallback when unset or empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
