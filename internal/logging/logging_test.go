package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	logger := slog.New(h).With("component", "test")

	logger.Debug("quiet")
	logger.Warn("loud")

	assert.Contains(t, debugBuf.String(), "msg=quiet")
	assert.Contains(t, debugBuf.String(), "msg=loud")
	assert.NotContains(t, warnBuf.String(), "quiet")
	assert.Contains(t, warnBuf.String(), "msg=loud")
	assert.Contains(t, warnBuf.String(), "component=test")
}

func TestMultiHandler_DisabledWhenAllDisabled(t *testing.T) {
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
}

// TestSetupLogger_ConsoleOnly checks a non-terminal output gets plain text
func TestSetupLogger_ConsoleOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	logger, closeFn := SetupLogger(Config{Level: "warn", Output: out})
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown", "n", 1)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hidden")
	assert.Contains(t, string(raw), "msg=shown")
	assert.Contains(t, string(raw), "n=1")
}

// TestDiagnostics_FirstInitWins runs in isolation: nothing else in this
// package touches the diagnostics sink
func TestDiagnostics_FirstInitWins(t *testing.T) {
	var first, second bytes.Buffer
	assert.True(t, InitDiagnostics(NewTextLogger(&first, slog.LevelInfo)))
	assert.False(t, InitDiagnostics(NewTextLogger(&second, slog.LevelInfo)))

	Diagnostics().Warn("dropped")
	assert.Contains(t, first.String(), "msg=dropped")
	assert.Empty(t, second.String())
}
