package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_ActionAndError(t *testing.T) {
	var buf bytes.Buffer
	log := New("web", slog.LevelDebug, &buf)

	log.Action("checkout_failed").Error("cannot place order", errors.New("boom"), "store_id", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "web", entry["service"])
	assert.Equal(t, "checkout_failed", entry["action"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.EqualValues(t, 3, entry["store_id"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New("web", slog.LevelInfo, &buf)

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.WithGroup("details").With("order_number", "ORD_20260101_001").Info("shown")
	assert.Contains(t, buf.String(), `"details":{"order_number":"ORD_20260101_001"}`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
