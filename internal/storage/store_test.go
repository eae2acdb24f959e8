package storage

import (
	"context"
	"sync"
	"testing"

	mytesting "campus-messages/internal/testing"

	"github.com/stretchr/testify/require"
)

// runStoreSuite checks the Store contract. It never assumes a fresh database:
// ids are compared relative to the ones it creates.
func runStoreSuite(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("CreateUser", func(t *testing.T) {
		name := mytesting.RandString()
		u, err := s.CreateUser(ctx, name, RoleLecturer)
		require.NoError(t, err)
		require.Greater(t, u.ID, int64(0))
		require.Equal(t, name, u.Name)
		require.Equal(t, RoleLecturer, u.Role)

		got, err := s.UserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u, got)
	})

	t.Run("CreateUserIncreasingIDs", func(t *testing.T) {
		var last int64
		for i := 0; i < 5; i++ {
			u, err := s.CreateUser(ctx, mytesting.RandString(), RoleStudent)
			require.NoError(t, err)
			require.Greater(t, u.ID, last)
			last = u.ID
		}
	})

	t.Run("CreateUserConcurrentUniqueIDs", func(t *testing.T) {
		const n = 20
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[int64]struct{}, n)
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				u, err := s.CreateUser(ctx, mytesting.RandString(), RoleStudent)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				ids[u.ID] = struct{}{}
				mu.Unlock()
			}()
		}
		wg.Wait()
		require.Len(t, ids, n)
	})

	t.Run("UserByIDNotExist", func(t *testing.T) {
		_, err := s.UserByID(ctx, 9223372036854775807)
		require.Equal(t, ErrUserNotExist, err)
	})

	t.Run("CreateMessage", func(t *testing.T) {
		sender, err := s.CreateUser(ctx, mytesting.RandString(), RoleLecturer)
		require.NoError(t, err)
		receiver, err := s.CreateUser(ctx, mytesting.RandString(), RoleStudent)
		require.NoError(t, err)

		m, err := s.CreateMessage(ctx, sender.ID, receiver.ID, "Hi There!")
		require.NoError(t, err)
		require.Greater(t, m.ID, int64(0))
		require.Equal(t, sender.ID, m.SenderID)
		require.Equal(t, receiver.ID, m.ReceiverID)
		require.Equal(t, "Hi There!", m.Content)
		require.False(t, m.Timestamp.IsZero())

		received, err := s.MessagesByReceiver(ctx, receiver.ID)
		require.NoError(t, err)
		require.Len(t, received, 1)
		require.Equal(t, m.ID, received[0].ID)
		require.True(t, m.Timestamp.Equal(received[0].Timestamp))

		sent, err := s.MessagesBySender(ctx, sender.ID)
		require.NoError(t, err)
		require.Len(t, sent, 1)
		require.Equal(t, m.ID, sent[0].ID)

		// opposite lists stay empty
		received, err = s.MessagesByReceiver(ctx, sender.ID)
		require.NoError(t, err)
		require.Empty(t, received)
		sent, err = s.MessagesBySender(ctx, receiver.ID)
		require.NoError(t, err)
		require.Empty(t, sent)
	})

	t.Run("CreateMessageBadSender", func(t *testing.T) {
		receiver, err := s.CreateUser(ctx, mytesting.RandString(), RoleStudent)
		require.NoError(t, err)

		_, err = s.CreateMessage(ctx, 9223372036854775807, receiver.ID, "Hi There!")
		require.Equal(t, ErrMessageBadSender, err)
		require.ErrorIs(t, err, ErrConstraintViolation)

		received, err := s.MessagesByReceiver(ctx, receiver.ID)
		require.NoError(t, err)
		require.Empty(t, received)
	})

	t.Run("CreateMessageBadReceiver", func(t *testing.T) {
		sender, err := s.CreateUser(ctx, mytesting.RandString(), RoleLecturer)
		require.NoError(t, err)

		_, err = s.CreateMessage(ctx, sender.ID, 9223372036854775807, "Hi There!")
		require.Equal(t, ErrMessageBadReceiver, err)
		require.ErrorIs(t, err, ErrConstraintViolation)

		sent, err := s.MessagesBySender(ctx, sender.ID)
		require.NoError(t, err)
		require.Empty(t, sent)
	})

	t.Run("MessagesInsertionOrder", func(t *testing.T) {
		lecturer, err := s.CreateUser(ctx, mytesting.RandString(), RoleLecturer)
		require.NoError(t, err)
		student, err := s.CreateUser(ctx, mytesting.RandString(), RoleStudent)
		require.NoError(t, err)

		contents := []string{"first", "second", "third", "fourth"}
		for _, c := range contents {
			_, err := s.CreateMessage(ctx, lecturer.ID, student.ID, c)
			require.NoError(t, err)
		}

		received, err := s.MessagesByReceiver(ctx, student.ID)
		require.NoError(t, err)
		require.Len(t, received, len(contents))
		for i, m := range received {
			require.Equal(t, contents[i], m.Content)
			require.Equal(t, lecturer.ID, m.SenderID)
			if i > 0 {
				require.Greater(t, m.ID, received[i-1].ID)
			}
		}
	})

	t.Run("MessageToSelf", func(t *testing.T) {
		u, err := s.CreateUser(ctx, mytesting.RandString(), RoleStudent)
		require.NoError(t, err)

		m, err := s.CreateMessage(ctx, u.ID, u.ID, "note to self")
		require.NoError(t, err)

		received, err := s.MessagesByReceiver(ctx, u.ID)
		require.NoError(t, err)
		sent, err := s.MessagesBySender(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, received, 1)
		require.Len(t, sent, 1)
		require.Equal(t, m.ID, received[0].ID)
		require.Equal(t, m.ID, sent[0].ID)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.CreateUser(canceled, mytesting.RandString(), RoleStudent)
		require.Error(t, err)
	})
}
