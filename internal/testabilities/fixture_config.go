// Package testabilities holds fixture builders shared across this
// module's test files.
package testabilities

import (
	"testing"

	"github.com/go-softwarelab/common/pkg/slogx"
	"github.com/go-softwarelab/common/pkg/to"
	"github.com/openkitx403/openkitx403/pkg/verify"
)

// ConfigFixtureOptions controls NewConfigFixture's output, following the
// options-struct + functional-options fixture shape used across this
// module.
type ConfigFixtureOptions struct {
	issuer   string
	audience string
	opts     []verify.Option
}

// WithIssuer overrides the fixture's default issuer.
func WithIssuer(issuer string) func(*ConfigFixtureOptions) {
	return func(o *ConfigFixtureOptions) { o.issuer = issuer }
}

// WithAudience overrides the fixture's default audience.
func WithAudience(audience string) func(*ConfigFixtureOptions) {
	return func(o *ConfigFixtureOptions) { o.audience = audience }
}

// WithVerifyOptions appends verify.Options the fixture applies after
// its own defaults.
func WithVerifyOptions(opts ...verify.Option) func(*ConfigFixtureOptions) {
	return func(o *ConfigFixtureOptions) { o.opts = append(o.opts, opts...) }
}

// NewConfigFixture builds a verify.Config wired to a per-test logger via
// slogx.NewTestLogger, so verification-pipeline logs surface in `go test
// -v` output attributed to t.
func NewConfigFixture(t testing.TB, opts ...func(*ConfigFixtureOptions)) verify.Config {
	t.Helper()

	options := to.OptionsWithDefault(ConfigFixtureOptions{
		issuer:   "test-server",
		audience: "https://test.example",
	}, opts...)

	verifyOpts := append([]verify.Option{verify.WithLogger(slogx.NewTestLogger(t))}, options.opts...)
	return verify.New(options.issuer, options.audience, verifyOpts...)
}
