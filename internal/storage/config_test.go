package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDSN(t *testing.T) {
	config := Config{
		User:     "a",
		Password: "b",
		Host:     "c",
		Port:     5432,
		DBName:   "d",
	}
	expected := "user=a password=b host=c port=5432 dbname=d sslmode=disable"
	actual := config.DSN()
	require.Equal(t, expected, actual)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), zap.NewNop().Sugar(), Config{Driver: "sqlite"})
	require.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpenBadgerInMemory(t *testing.T) {
	s, err := Open(context.Background(), zap.NewNop().Sugar(), Config{Driver: DriverBadger})
	require.NoError(t, err)
	defer s.Close()

	require.IsType(t, &BadgerStore{}, s)
}

func TestRoleValid(t *testing.T) {
	require.True(t, RoleLecturer.Valid())
	require.True(t, RoleStudent.Valid())
	require.False(t, Role("dosen").Valid())
	require.False(t, Role("").Valid())
}
