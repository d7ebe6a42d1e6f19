package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Output: &buf})

	logger.Info().Msg("filtered")
	logger.Warn().Msg("emitted")

	out := buf.String()
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "emitted")
}

func TestNewDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "not-a-level", Format: "json", Output: &buf})

	logger.Debug().Msg("filtered")
	logger.Info().Msg("emitted")

	assert.NotContains(t, buf.String(), "filtered")
	assert.Contains(t, buf.String(), "emitted")
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(New(Config{Format: "json", Output: &buf}), "resolver")

	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"resolver"`)
}

func TestFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "json", Output: &buf})
	ctx := logger.WithContext(context.Background())

	FromContext(ctx).Info().Msg("via context")

	assert.Contains(t, buf.String(), "via context")
}

func TestGetOrGenerateTraceID(t *testing.T) {
	ctx := context.Background()

	generated := GetOrGenerateTraceID(ctx)
	require.NotEmpty(t, generated)

	ctx = ContextWithTraceID(ctx, "fixed-id")
	assert.Equal(t, "fixed-id", GetOrGenerateTraceID(ctx))
	assert.Equal(t, "fixed-id", TraceIDFromContext(ctx))
}

func TestNewTraceIDIsUnique(t *testing.T) {
	a := NewTraceID()
	b := NewTraceID()
	require.NotEqual(t, a, b)
	assert.Len(t, strings.TrimSpace(a), 26)
}
