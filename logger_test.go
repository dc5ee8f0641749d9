package jwtmiddleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockLogger struct {
	debugCalls []logCall
	warnCalls  []logCall
}

type logCall struct {
	msg  string
	args []any
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.debugCalls = append(m.debugCalls, logCall{msg, args})
}
func (m *mockLogger) Info(string, ...any) {}
func (m *mockLogger) Warn(msg string, args ...any) {
	m.warnCalls = append(m.warnCalls, logCall{msg, args})
}
func (m *mockLogger) Error(string, ...any) {}

func TestZapLogger(t *testing.T) {
	observed, recorded := observer.New(zapcore.InfoLevel)
	logger := NewZapLogger(zap.New(observed).Sugar())

	logger.Debug("debug message", "path", "/")
	assert.Equal(t, 0, recorded.Len(), "Debug message should not be recorded at Info level")

	logger.Info("info message", "path", "/")
	logger.Warn("JWT validation failed", "path", "/api/test", "method", "GET")
	logger.Error("error message")

	entries := recorded.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "JWT validation failed", entries[1].Message)
	assert.Equal(t, map[string]any{"path": "/api/test", "method": "GET"}, entries[1].ContextMap())
}

func TestLogrusLogger(t *testing.T) {
	base, hook := logrustest.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)
	logger := NewLogrusLogger(base)

	logger.Debug("debug message")
	assert.Empty(t, hook.AllEntries())

	reason := errors.New("token expired")
	logger.Warn("JWT validation failed", "error", reason, "path", "/api/test")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "JWT validation failed", entry.Message)
	assert.Equal(t, logrus.Fields{"error": reason, "path": "/api/test"}, entry.Data)

	logger.Info("no fields")
	assert.Empty(t, hook.LastEntry().Data)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debug("debug message")
	assert.Zero(t, buf.Len())

	logger.Error("JWT validation failed", "error", errors.New("token expired"), "status", 401, "dangling")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, map[string]any{
		"level":   "error",
		"message": "JWT validation failed",
		"error":   "token expired",
		"status":  float64(401),
		"!BADKEY": "dangling",
	}, entry)
}

func TestForEachPair(t *testing.T) {
	var got []string
	forEachPair([]any{"a", 1, 2, "b"}, func(key string, value any) {
		got = append(got, key)
	})
	assert.Equal(t, []string{"a", "2"}, got)
}
