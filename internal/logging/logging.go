package logging

import (
	"io"
	"strings"
	"time"

	"github.com/jrsteele09/go-auth-bridge/internal/config"
	"github.com/rs/zerolog"
)

// New builds the application logger: human readable console output in DEV,
// JSON lines otherwise. Unknown levels fall back to info.
func New(cfg config.EnvConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.GetLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	w := out
	if cfg.GetEnv() == "DEV" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: true}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("app", cfg.GetAppName()).Logger()
}
