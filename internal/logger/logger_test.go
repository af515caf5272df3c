package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONWithCapitalLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("restored workouts", zap.Int("count", 3))
	Flush(log)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "restored workouts", entry["msg"])
	require.EqualValues(t, 3, entry["count"])
	require.Contains(t, entry, "ts")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty")
	require.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	fallback := zap.NewNop()
	require.Same(t, fallback, FromContext(context.Background(), fallback))

	scoped := zap.NewExample()
	ctx := WithContext(context.Background(), scoped)
	require.Same(t, scoped, FromContext(ctx, fallback))
}
