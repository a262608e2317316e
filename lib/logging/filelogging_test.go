package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLogFile(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	f, err := OpenLogFile(filepath.Join(dir, "x402hub.log"), day)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, filepath.Join(dir, "x402hub-2026-03-01.log"), f.Name())

	g, err := OpenLogFile(filepath.Join(dir, "x402hub"), day)
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, filepath.Join(dir, "x402hub-2026-03-01.log"), g.Name())
}

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	logger := Logger(path)
	logger.Info("hello from the logger")

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "server-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello from the logger")
}
