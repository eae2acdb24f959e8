package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func bootstrapBadger(t *testing.T, path string) *BadgerStore {
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	s, err := NewBadgerStore(logger.Sugar(), path)
	require.NoError(t, err)

	return s
}

func TestBadgerStore(t *testing.T) {
	s := bootstrapBadger(t, "")
	defer s.Close()

	runStoreSuite(t, s)
}

func TestBadgerStoreFirstIDs(t *testing.T) {
	s := bootstrapBadger(t, "")
	defer s.Close()

	ctx := context.Background()
	alice, err := s.CreateUser(ctx, "Alice", RoleLecturer)
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "Bob", RoleStudent)
	require.NoError(t, err)
	require.Equal(t, int64(1), alice.ID)
	require.Equal(t, int64(2), bob.ID)

	m, err := s.CreateMessage(ctx, alice.ID, bob.ID, "Hello")
	require.NoError(t, err)
	require.Equal(t, int64(1), m.ID)
}

func TestBadgerStoreReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := bootstrapBadger(t, dir)
	alice, err := s.CreateUser(ctx, "Alice", RoleLecturer)
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "Bob", RoleStudent)
	require.NoError(t, err)
	m, err := s.CreateMessage(ctx, alice.ID, bob.ID, "Hello")
	require.NoError(t, err)
	s.Close()

	s = bootstrapBadger(t, dir)
	defer s.Close()

	got, err := s.UserByID(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, bob, got)

	received, err := s.MessagesByReceiver(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, m.ID, received[0].ID)
	require.Equal(t, "Hello", received[0].Content)

	// ids keep increasing across restarts
	carol, err := s.CreateUser(ctx, "Carol", RoleStudent)
	require.NoError(t, err)
	require.Greater(t, carol.ID, bob.ID)
}
