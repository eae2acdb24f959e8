package storage

import (
	"context"
	"os"
	"testing"

	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Postgres tests run only against a database configured with TEST_DB_* variables,
// e.g. TEST_DB_HOST=localhost TEST_DB_NAME=messages_test
func bootstrapPostgres(t *testing.T) *PostgresStore {
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST is not set")
	}

	var cfg Config
	require.NoError(t, env.Parse(&cfg, env.Options{Prefix: "TEST_"}))

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	s, err := NewPostgresStore(context.Background(), logger.Sugar(), cfg, MaxConns(4))
	require.NoError(t, err)

	return s
}

func TestPostgresStore(t *testing.T) {
	s := bootstrapPostgres(t)
	defer s.Close()

	runStoreSuite(t, s)
}

func TestPostgresStoreSchemaIsIdempotent(t *testing.T) {
	s := bootstrapPostgres(t)
	defer s.Close()

	_, err := s.db.Exec(context.Background(), schema)
	require.NoError(t, err)
}
