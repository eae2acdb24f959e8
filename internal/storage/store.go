//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUserNotExist        = errors.New("user does not exist")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrMessageBadSender    = fmt.Errorf("%w: bad sender id", ErrConstraintViolation)
	ErrMessageBadReceiver  = fmt.Errorf("%w: bad receiver id", ErrConstraintViolation)
	ErrUnknownDriver       = errors.New("unknown storage driver")
)

// Store persists users and messages.
// Every mutation is committed before the call returns, ids are assigned by the Store
// and message timestamps are taken by the Store at insert time.
type Store interface {
	// CreateUser inserts a user and returns it with its assigned id
	CreateUser(ctx context.Context, name string, role Role) (User, error)
	// UserByID returns ErrUserNotExist when no user has the given id
	UserByID(ctx context.Context, id int64) (User, error)
	// CreateMessage returns ErrMessageBadSender or ErrMessageBadReceiver
	// when either reference does not resolve to a user
	CreateMessage(ctx context.Context, sender, receiver int64, content string) (Message, error)
	// MessagesByReceiver lists messages addressed to a user, oldest first
	MessagesByReceiver(ctx context.Context, receiver int64) ([]Message, error)
	// MessagesBySender lists messages written by a user, oldest first
	MessagesBySender(ctx context.Context, sender int64) ([]Message, error)
	Close()
}
