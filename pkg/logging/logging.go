// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.SetupWithLevel(cfg.LogLevel)
//	logger := logging.New(os.Stdout, slog.LevelDebug)
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// SetupWithLevel installs a colored stderr logger at the given level as the slog default.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// New returns a tint logger writing to w. Colors are disabled unless w is stderr or stdout.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
		NoColor:    w != os.Stderr && w != os.Stdout,
	}))
}
