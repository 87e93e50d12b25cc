// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	if err := logging.Setup(cfg.LogLevel); err != nil { ... }
//	logger := logging.New(os.Stdout, slog.LevelDebug) // explicit writer and level
//
// Accepted levels: debug, info, warn, error.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a colored stderr logger at the named level as the slog default.
func Setup(levelName string) error {
	level, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	slog.SetDefault(New(os.Stderr, level))
	return nil
}

// New returns a tint logger writing to w. Color is disabled unless w is
// stderr or stdout, so log files and test buffers stay plain text.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
		NoColor:    w != os.Stderr && w != os.Stdout,
	}))
}

// ParseLevel maps a level name to its slog level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
