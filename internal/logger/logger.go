package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	// Sensible default so packages can log before InitLogging runs.
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// InitLogging configures the process-wide logger. When filePath is non-empty
// the log is duplicated to that file; console output stays human-readable.
func InitLogging(filePath string) {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: cannot open %s: %v\n", filePath, err)
		} else {
			writers = append(writers, f)
		}
	}

	log = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
}

// SetLevel sets the global minimum level ("debug", "info", "warn", "error").
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	log.Debug().Ctx(ctx).Msgf(format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	log.Info().Ctx(ctx).Msgf(format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	log.Warn().Ctx(ctx).Msgf(format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	log.Error().Ctx(ctx).Msgf(format, args...)
}
