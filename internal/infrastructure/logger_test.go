package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidcli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	previous := slog.Default()
	defer func() {
		ResetLoggerForTesting()
		slog.SetDefault(previous)
	}()

	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}

	var console bytes.Buffer
	logger, err := InitializeLogger(cfg, &console)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("test message", "key", "value")

	// Close log file to allow reading on Windows
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}
	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}

	assert.Equal(t, string(content), console.String(), "both outputs receive the same record")
	assert.Same(t, logger, GetLogger())
}

func TestInitializeLoggerReplacesPrevious(t *testing.T) {
	ResetLoggerForTesting()
	previous := slog.Default()
	defer func() {
		ResetLoggerForTesting()
		slog.SetDefault(previous)
	}()

	dir := t.TempDir()
	firstFile := filepath.Join(dir, "first.log")

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "file", FilePath: firstFile}, nil)
	require.NoError(t, err)

	var console bytes.Buffer
	second, err := InitializeLogger(config.LoggingConfig{Level: "warn", Format: "json", Output: "console"}, &console)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Same(t, second, GetLogger())

	slog.Info("filtered")
	slog.Warn("kept")
	assert.NotContains(t, console.String(), "filtered")
	assert.Contains(t, console.String(), "kept")

	// The first logger's file was closed when it was replaced
	first.Info("after replace")
	content, err := os.ReadFile(firstFile)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "after replace")

	_, err = InitializeLogger(config.LoggingConfig{Output: "file"}, nil)
	assert.Error(t, err)
	assert.Same(t, second, GetLogger(), "failed initialization keeps the current logger")
}

func TestLoggerWithContext(t *testing.T) {
	ResetLoggerForTesting()
	previous := slog.Default()
	defer func() {
		ResetLoggerForTesting()
		slog.SetDefault(previous)
	}()

	var console bytes.Buffer
	_, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &console)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "run-456")
	LoggerWithContext(ctx, nil).Info("traced")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(console.Bytes(), &entry))
	assert.Equal(t, "run-456", entry["trace_id"])
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, file, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &buf)
	require.NoError(t, err)
	assert.Nil(t, file)

	ctx := WithTraceID(context.Background(), "run-123")
	logger.InfoContext(ctx, "with trace")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-123", entry["trace_id"])
}

func TestTextFormatUsesConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "text", Output: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug("selected files", "count", 4)

	out := buf.String()
	assert.Contains(t, out, "selected files")
	assert.Contains(t, out, "count=4")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "text format must not emit JSON")
	assert.NotContains(t, out, "\x1b[", "buffers are not terminals, no color codes expected")
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json", Output: "console"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerFileErrors(t *testing.T) {
	_, _, err := NewLogger(config.LoggingConfig{Output: "file"}, nil)
	assert.Error(t, err)

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	_, _, err = NewLogger(config.LoggingConfig{Output: "both", FilePath: filepath.Join(blocker, "app.log")}, nil)
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)), "existing trace id is kept")
	assert.Empty(t, GetTraceID(context.Background()))
}
