package common

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCapturedLogger(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func TestSetupLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	require.NoError(t, SetupLogger(slog.LevelDebug, "json"))
	require.NoError(t, SetupLogger(slog.LevelInfo, "text"))
}

func TestLogHelpersIncludeFields(t *testing.T) {
	buf := withCapturedLogger(t, slog.LevelDebug)

	LogInfo("purchase saved", Fields{"items": 3})
	LogDebug("barcode resolved", Fields{"barcode": "789"})
	LogError(errors.New("disk full"), "save failed", Fields{"purchase_id": "p1"})

	out := buf.String()
	assert.Contains(t, out, "purchase saved")
	assert.Contains(t, out, `"items":3`)
	assert.Contains(t, out, `"barcode":"789"`)
	assert.Contains(t, out, "save failed")
	assert.Contains(t, out, `"error":"disk full"`)
	assert.Contains(t, out, `"purchase_id":"p1"`)
}
