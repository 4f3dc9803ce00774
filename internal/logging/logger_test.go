package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(INFO, true, &buf)

	logger.Info("profile loaded", "profile_id", "sophie-martin", "views", 3)

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "profile loaded", entry.Message)
	assert.Equal(t, "sophie-martin", entry.Fields["profile_id"])
	assert.EqualValues(t, 3, entry.Fields["views"])
	assert.NotEmpty(t, entry.Timestamp)
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(WARN, true, &buf)

	logger.Debug("noise")
	logger.Info("noise")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestStructuredLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(INFO, true, &buf).WithComponent("search")

	logger.Info("query ran")

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "search", entry.Component)
}

func TestStructuredLogger_ContextTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(INFO, true, &buf)

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.InfoContext(ctx, "traced")

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-123", entry.TraceID)
}

func TestStructuredLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(INFO, false, &buf)

	logger.Info("plain line", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "plain line")
	assert.Contains(t, out, "key=value")
}

func TestWithTraceID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithTraceID(context.Background(), "")
	assert.NotEmpty(t, GetTraceID(ctx))
}

func TestGetTraceID_MissingReturnsEmpty(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLogLevel("debug"))
	assert.Equal(t, WARN, ParseLogLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLogLevel("Error"))
	assert.Equal(t, INFO, ParseLogLevel("bogus"))
}
