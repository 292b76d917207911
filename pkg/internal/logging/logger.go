package logging

import (
	"log/slog"
	"os"

	"github.com/openkitx403/openkitx403/pkg/defs"
)

// NewLogger builds a *slog.Logger writing to stderr at level, using the
// handler format requested by handlerType. Callers that only have level
// and handler strings (e.g. from flags or environment variables) should
// parse them with defs.ParseLogLevelStr and defs.ParseHandlerTypeStr first.
func NewLogger(level defs.LogLevel, handlerType defs.LogHandler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(level)}

	var handler slog.Handler
	switch handlerType {
	case defs.JSONHandler:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func slogLevel(level defs.LogLevel) slog.Level {
	switch level {
	case defs.LogLevelDebug:
		return slog.LevelDebug
	case defs.LogLevelWarn:
		return slog.LevelWarn
	case defs.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
