package verify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-softwarelab/common/pkg/to"
	"github.com/openkitx403/openkitx403/pkg/defs"
	"github.com/openkitx403/openkitx403/pkg/internal/logging"
	"github.com/openkitx403/openkitx403/pkg/replay"
)

// DefaultTTL, DefaultClockSkew, and DefaultTokenGateTimeout are the
// recommended defaults for a deployment that hasn't reasoned about its
// own tolerance.
const (
	DefaultTTL              = 60 * time.Second
	DefaultClockSkew        = 120 * time.Second
	DefaultTokenGateTimeout = 2 * time.Second
	// RecommendedMaxTTL is advisory only; Config does not enforce it.
	RecommendedMaxTTL = 300 * time.Second
)

// TokenGate is the user-supplied predicate the verifier invokes once
// every other check has passed. It is external collaborator code: the
// core only calls it and interprets its result, never implements the
// gating policy itself.
type TokenGate func(ctx context.Context, addr string) (bool, error)

// Config holds the per-server parameters the verification pipeline checks
// against. It is built once via New and is immutable afterward; every
// verification takes a read-only handle to it.
type Config struct {
	Issuer            string
	Audience          string
	TTL               time.Duration
	BindMethodPath    bool
	OriginBinding     bool
	UABinding         bool
	ClockSkew         time.Duration
	ReplayStore       replay.Store
	TokenGate         TokenGate
	TokenGateTimeout  time.Duration
	Logger            *slog.Logger
	Now               func() time.Time
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithTTL overrides the default 60s challenge TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Config) { c.TTL = ttl }
}

// WithBindMethodPath toggles method/path binding. Defaults to true.
func WithBindMethodPath(enabled bool) Option {
	return func(c *Config) { c.BindMethodPath = enabled }
}

// WithOriginBinding toggles Origin/Referer binding. Defaults to false.
func WithOriginBinding(enabled bool) Option {
	return func(c *Config) { c.OriginBinding = enabled }
}

// WithUABinding toggles User-Agent binding. Defaults to false.
func WithUABinding(enabled bool) Option {
	return func(c *Config) { c.UABinding = enabled }
}

// WithClockSkew overrides the default 120s clock-skew tolerance.
func WithClockSkew(skew time.Duration) Option {
	return func(c *Config) { c.ClockSkew = skew }
}

// WithReplayStore installs a replay store. Without one, the verifier
// never performs replay detection and the corresponding check is
// skipped entirely.
func WithReplayStore(store replay.Store) Option {
	return func(c *Config) { c.ReplayStore = store }
}

// WithTokenGate installs a token-gate predicate, and optionally a
// per-verification timeout for it (default DefaultTokenGateTimeout).
func WithTokenGate(gate TokenGate, timeout time.Duration) Option {
	return func(c *Config) {
		c.TokenGate = gate
		if timeout > 0 {
			c.TokenGateTimeout = timeout
		}
	}
}

// WithLogger installs a logger. The default, and a nil logger, fall back
// to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithLogLevel builds a logger from a level/handler pair, the shape a CLI
// or environment-variable driven deployment typically has on hand rather
// than a ready-made *slog.Logger.
func WithLogLevel(level defs.LogLevel, handlerType defs.LogHandler) Option {
	return func(c *Config) { c.Logger = logging.NewLogger(level, handlerType) }
}

// WithLogLevelStrings is WithLogLevel for a caller that only has the
// level/handler as raw strings on hand, e.g. parsed from a flag or an
// environment variable. It parses both case-insensitively via
// defs.ParseLogLevelStr/defs.ParseHandlerTypeStr and reports the first
// parse error instead of returning an Option.
func WithLogLevelStrings(level, handlerType string) (Option, error) {
	parsedLevel, err := defs.ParseLogLevelStr(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	parsedHandler, err := defs.ParseHandlerTypeStr(handlerType)
	if err != nil {
		return nil, fmt.Errorf("parse log handler: %w", err)
	}
	return WithLogLevel(parsedLevel, parsedHandler), nil
}

// WithClock overrides the verifier's notion of "now", for deterministic
// tests.
func WithClock(now func() time.Time) Option {
	return func(c *Config) { c.Now = now }
}

// New builds an immutable Config for issuer/audience, applying defaults
// via to.OptionsWithDefault before any supplied Option overrides them.
func New(issuer, audience string, opts ...Option) Config {
	fnOpts := make([]func(*Config), len(opts))
	for i, opt := range opts {
		fnOpts[i] = opt
	}
	return to.OptionsWithDefault(Config{
		Issuer:           issuer,
		Audience:         audience,
		TTL:              DefaultTTL,
		BindMethodPath:   true,
		OriginBinding:    false,
		UABinding:        false,
		ClockSkew:        DefaultClockSkew,
		TokenGateTimeout: DefaultTokenGateTimeout,
		Logger:           logging.DefaultIfNil(nil),
		Now:              time.Now,
	}, fnOpts...)
}
