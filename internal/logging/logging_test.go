package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}

func TestNewLevel(t *testing.T) {
	logger, err := New(Config{Level: "warn"})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(Config{Level: "debug", Development: true, File: file, MaxSizeMB: 1, MaxAgeDays: 1})
	require.NoError(t, err)

	logger.Info("registered", zap.Int64("id", 1))
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"registered"`)
	require.Contains(t, string(data), `"id":1`)
	require.Contains(t, string(data), `"timestamp"`)
}
