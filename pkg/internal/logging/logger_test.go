package logging_test

import (
	"context"
	"testing"

	"github.com/openkitx403/openkitx403/pkg/defs"
	"github.com/openkitx403/openkitx403/pkg/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ReturnsNonNilForEveryHandlerType(t *testing.T) {
	for _, handlerType := range []defs.LogHandler{defs.JSONHandler, defs.TextHandler} {
		logger := logging.NewLogger(defs.LogLevelDebug, handlerType)
		require.NotNil(t, logger)
	}
}

func TestNewLogger_EnabledRespectsConfiguredLevel(t *testing.T) {
	// given
	logger := logging.NewLogger(defs.LogLevelError, defs.JSONHandler)

	// then
	ctx := context.Background()
	require.False(t, logger.Enabled(ctx, -4)) // slog.LevelDebug
	require.True(t, logger.Enabled(ctx, 8))   // slog.LevelError
}
