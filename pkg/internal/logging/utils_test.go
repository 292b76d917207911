package logging_test

import (
	"testing"

	"github.com/openkitx403/openkitx403/pkg/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestDefaultIfNil(t *testing.T) {
	// when:
	logger := logging.DefaultIfNil(nil)

	// then:
	require.NotNil(t, logger)
}
