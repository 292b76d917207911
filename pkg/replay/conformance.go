package replay

import (
	"context"
	"time"

	"github.com/go-softwarelab/common/pkg/testingx"
	"github.com/go-softwarelab/common/pkg/to"
)

// ConformanceOptions tunes RunStoreConformance. TTL is an optional override
// for how long the expiry assertion waits after storing a key with a zero
// TTL; most callers leave it nil and get defaultConformanceTTL.
type ConformanceOptions struct {
	TTL *time.Duration
}

const defaultConformanceTTL = 50 * time.Millisecond

// WithConformanceTTL overrides how long RunStoreConformance waits before
// asserting that a zero-TTL entry has expired. Useful for a Store backed by
// a clock with coarser resolution than the default.
func WithConformanceTTL(ttl time.Duration) func(*ConformanceOptions) {
	return func(o *ConformanceOptions) { o.TTL = to.Ptr(ttl) }
}

// RunStoreConformance asserts that a fresh Store from newStore satisfies the
// behavioral contract every Store implementation must honor: a miss on an
// absent key, a hit after Store, and expiry once the TTL elapses. It takes
// a testingx.TB rather than *testing.T so the same battery runs under a
// plain test and under any other testingx.TB-shaped harness.
func RunStoreConformance(t testingx.TB, newStore func() Store, opts ...func(*ConformanceOptions)) {
	t.Helper()

	options := to.OptionsWithDefault(ConformanceOptions{}, opts...)
	ttl := to.ValueOr(options.TTL, defaultConformanceTTL)
	ctx := context.Background()

	store := newStore()
	exists, err := store.Check(ctx, "conformance-key")
	if err != nil {
		t.Fatalf("check absent key: %v", err)
	}
	if exists {
		t.Fatalf("fresh store reported a hit for a key it never saw")
	}

	if err := store.Store(ctx, "conformance-key", int(ttl.Seconds())+1); err != nil {
		t.Fatalf("store key: %v", err)
	}

	exists, err = store.Check(ctx, "conformance-key")
	if err != nil {
		t.Fatalf("check stored key: %v", err)
	}
	if !exists {
		t.Fatalf("store did not report a hit immediately after Store")
	}

	expiring := newStore()
	if err := expiring.Store(ctx, "conformance-expiry", 0); err != nil {
		t.Fatalf("store expiring key: %v", err)
	}
	time.Sleep(ttl)
	exists, err = expiring.Check(ctx, "conformance-expiry")
	if err != nil {
		t.Fatalf("check expiring key: %v", err)
	}
	if exists {
		t.Fatalf("store reported a hit for a key past its TTL")
	}
}
