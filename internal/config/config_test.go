package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"campus-messages/internal/storage"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "HOST", "PORT", "READ_TIMEOUT", "STORAGE_DRIVER", "DB_PORT", "LOG_LEVEL")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:9000", cfg.Server.Addr())
	require.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, storage.DriverPostgres, cfg.Storage.Driver)
	require.Equal(t, uint16(5432), cfg.Storage.Port)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("STORAGE_DRIVER=badger\nBADGER_PATH=/tmp/msgs\nPORT=8080\n"), 0o600))
	unsetenv(t, "STORAGE_DRIVER", "BADGER_PATH")
	t.Setenv("PORT", "7070")

	cfg, err := Load(file)
	require.NoError(t, err)

	require.Equal(t, storage.DriverBadger, cfg.Storage.Driver)
	require.Equal(t, "/tmp/msgs", cfg.Storage.BadgerPath)
	// already set variables win over the file
	require.Equal(t, uint16(7070), cfg.Server.Port)
}

// unsetenv clears keys for the test and restores them afterwards, godotenv writes into the process environment
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadBadValue(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load("")
	require.Error(t, err)
}
