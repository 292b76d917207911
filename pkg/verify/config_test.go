package verify_test

import (
	"context"
	"testing"
	"time"

	"github.com/openkitx403/openkitx403/pkg/defs"
	"github.com/openkitx403/openkitx403/pkg/verify"
	"github.com/stretchr/testify/require"
)

func TestNew_AppliesDefaults(t *testing.T) {
	// when
	cfg := verify.New("srv", "https://a.ex")

	// then
	require.Equal(t, verify.DefaultTTL, cfg.TTL)
	require.Equal(t, verify.DefaultClockSkew, cfg.ClockSkew)
	require.Equal(t, verify.DefaultTokenGateTimeout, cfg.TokenGateTimeout)
	require.True(t, cfg.BindMethodPath)
	require.NotNil(t, cfg.Logger)
}

func TestNew_OptionsOverrideDefaults(t *testing.T) {
	// when
	cfg := verify.New("srv", "https://a.ex",
		verify.WithTTL(10*time.Second),
		verify.WithBindMethodPath(false),
		verify.WithOriginBinding(true),
		verify.WithUABinding(true),
		verify.WithClockSkew(5*time.Second))

	// then
	require.Equal(t, 10*time.Second, cfg.TTL)
	require.False(t, cfg.BindMethodPath)
	require.True(t, cfg.OriginBinding)
	require.True(t, cfg.UABinding)
	require.Equal(t, 5*time.Second, cfg.ClockSkew)
}

func TestWithLogLevel_BuildsLoggerFromLevelAndHandler(t *testing.T) {
	// when
	cfg := verify.New("srv", "https://a.ex", verify.WithLogLevel(defs.LogLevelError, defs.JSONHandler))

	// then
	require.NotNil(t, cfg.Logger)
	require.False(t, cfg.Logger.Enabled(context.Background(), -4)) // slog.LevelDebug
}

func TestWithLogLevelStrings_ParsesCaseInsensitiveLevelAndHandler(t *testing.T) {
	// when
	opt, err := verify.WithLogLevelStrings("ERROR", "JSON")
	require.NoError(t, err)
	cfg := verify.New("srv", "https://a.ex", opt)

	// then
	require.NotNil(t, cfg.Logger)
	require.False(t, cfg.Logger.Enabled(context.Background(), -4)) // slog.LevelDebug
}

func TestWithLogLevelStrings_RejectsUnknownLevel(t *testing.T) {
	// when
	_, err := verify.WithLogLevelStrings("trace", "json")

	// then
	require.Error(t, err)
}

func TestWithLogLevelStrings_RejectsUnknownHandler(t *testing.T) {
	// when
	_, err := verify.WithLogLevelStrings("info", "xml")

	// then
	require.Error(t, err)
}

func TestWithTokenGate_DefaultTimeoutAppliedWhenZero(t *testing.T) {
	// when
	cfg := verify.New("srv", "https://a.ex", verify.WithTokenGate(func(_ context.Context, _ string) (bool, error) {
		return true, nil
	}, 0))

	// then
	require.Equal(t, verify.DefaultTokenGateTimeout, cfg.TokenGateTimeout)
}
