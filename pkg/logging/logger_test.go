package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivyrecon/ivyrecon/pkg/logging"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf)
	logger.Info().Str("source", "Payroll").Int("rows", 12).Msg("Table normalized")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Table normalized", entry["message"])
	assert.Equal(t, "Payroll", entry["source"])
	assert.Equal(t, float64(12), entry["rows"])
	assert.Contains(t, entry, "time")
}

func TestDefault(t *testing.T) {
	assert.NotNil(t, logging.Default())
}

func TestContext(t *testing.T) {
	t.Run("logger round trip", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(&buf)

		ctx := logging.WithLogger(context.Background(), &logger)
		logging.Ctx(ctx).Info().Msg("from context")
		assert.Contains(t, buf.String(), "from context")
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.NotNil(t, logging.FromContext(context.Background()))
		assert.NotNil(t, logging.FromContext(nil)) //nolint:staticcheck
	})

	t.Run("run id", func(t *testing.T) {
		ctx := logging.WithRunID(context.Background(), "run-123")
		assert.Equal(t, "run-123", logging.RunID(ctx))
		assert.Equal(t, "", logging.RunID(context.Background()))
	})

	t.Run("run id is attached to log events", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(&buf)

		ctx := logging.WithLogger(context.Background(), &logger)
		ctx = logging.WithRunID(ctx, "run-456")
		logging.Ctx(ctx).Info().Msg("tagged")

		assert.Contains(t, buf.String(), `"run_id":"run-456"`)
	})
}
