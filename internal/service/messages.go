package service

import (
	"context"
	"errors"

	"campus-messages/internal/storage"
	"campus-messages/internal/storage/zapadapter"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type outgoing struct {
	Content string `validate:"required,max=200"`
}

// Inbox holds both directions of a user's messages, oldest first
type Inbox struct {
	User     storage.User
	Received []storage.Message
	Sent     []storage.Message
}

// MessageService sends messages and builds inboxes
type MessageService struct {
	logger   *zap.SugaredLogger
	store    storage.Store
	validate *validator.Validate
}

func NewMessageService(logger *zap.SugaredLogger, store storage.Store) *MessageService {
	return &MessageService{
		logger:   logger,
		store:    store,
		validate: validator.New(),
	}
}

// Send validates content and stores the message; the store assigns id and timestamp.
// Unknown sender or receiver yields ErrNotFound.
func (s *MessageService) Send(ctx context.Context, sender, receiver int64, content string) (storage.Message, error) {
	logger := zapadapter.WithRequestID(ctx, s.logger)
	logger.Debugf("Sending message from %d to %d with content: %s", sender, receiver, content)

	if err := s.validate.Struct(outgoing{Content: content}); err != nil {
		err = validationError(err)
		logger.Errorf("Error sending message: %v", err)
		return storage.Message{}, err
	}

	m, err := s.store.CreateMessage(ctx, sender, receiver, content)
	if err != nil {
		logger.Errorf("Error sending message: %v", err)
		if errors.Is(err, storage.ErrConstraintViolation) {
			return storage.Message{}, ErrNotFound
		}
		return storage.Message{}, &PersistenceError{Op: "create message", Err: err}
	}

	logger.Infof("Message %d from %d to %d sent successfully", m.ID, sender, receiver)

	return m, nil
}

// Inbox returns received and sent messages of the user
func (s *MessageService) Inbox(ctx context.Context, user int64) (Inbox, error) {
	logger := zapadapter.WithRequestID(ctx, s.logger)

	u, err := s.store.UserByID(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotExist) {
			logger.Errorf("User with id: %d not found", user)
			return Inbox{}, ErrNotFound
		}
		logger.Errorf("Error looking up user %d: %v", user, err)
		return Inbox{}, &PersistenceError{Op: "get user", Err: err}
	}

	logger.Debugf("Fetching messages for user_id: %d", user)

	received, err := s.store.MessagesByReceiver(ctx, user)
	if err != nil {
		logger.Errorf("Error fetching received messages: %v", err)
		return Inbox{}, &PersistenceError{Op: "list received messages", Err: err}
	}

	sent, err := s.store.MessagesBySender(ctx, user)
	if err != nil {
		logger.Errorf("Error fetching sent messages: %v", err)
		return Inbox{}, &PersistenceError{Op: "list sent messages", Err: err}
	}

	return Inbox{User: u, Received: received, Sent: sent}, nil
}
