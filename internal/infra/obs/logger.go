package obs

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LoggerOptions tune NewLogger; the zero value logs at info to stdout.
type LoggerOptions struct {
	Level  string
	Output io.Writer
}

// NewLogger returns a tint colour logger for dev/local and JSON otherwise.
func NewLogger(env string, opts LoggerOptions) *slog.Logger {
	level := ParseLevel(opts.Level)
	var writer io.Writer = os.Stdout
	if opts.Output != nil {
		writer = opts.Output
	}
	switch strings.ToLower(env) {
	case "dev", "local":
		return slog.New(tint.NewHandler(writer, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}))
	default:
		return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})).With("service", "stayhub")
	}
}

func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
