package service

import (
	"context"
	"errors"

	"campus-messages/internal/storage"
	"campus-messages/internal/storage/zapadapter"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type registration struct {
	Name string `validate:"required,max=50"`
	Role string `validate:"required,oneof=lecturer student"`
}

// UserService registers users and resolves login claims
type UserService struct {
	logger   *zap.SugaredLogger
	store    storage.Store
	validate *validator.Validate
}

func NewUserService(logger *zap.SugaredLogger, store storage.Store) *UserService {
	return &UserService{
		logger:   logger,
		store:    store,
		validate: validator.New(),
	}
}

// Register validates name and role and persists a new user
func (s *UserService) Register(ctx context.Context, name, role string) (storage.User, error) {
	logger := zapadapter.WithRequestID(ctx, s.logger)
	logger.Debugf("Registering user with name: %s, role: %s", name, role)

	if err := s.validate.Struct(registration{Name: name, Role: role}); err != nil {
		err = validationError(err)
		logger.Errorf("Error registering user: %v", err)
		return storage.User{}, err
	}

	u, err := s.store.CreateUser(ctx, name, storage.Role(role))
	if err != nil {
		logger.Errorf("Error registering user: %v", err)
		return storage.User{}, &PersistenceError{Op: "create user", Err: err}
	}

	logger.Infof("User %s registered successfully with id %d", u.Name, u.ID)

	return u, nil
}

// Login looks the user up by id. There is no credential to check.
func (s *UserService) Login(ctx context.Context, id int64) (storage.User, error) {
	logger := zapadapter.WithRequestID(ctx, s.logger)
	logger.Debugf("Login attempt with user_id: %d", id)

	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotExist) {
			logger.Errorf("User with user_id: %d not found", id)
			return storage.User{}, ErrNotFound
		}
		logger.Errorf("Error looking up user %d: %v", id, err)
		return storage.User{}, &PersistenceError{Op: "get user", Err: err}
	}

	logger.Infof("User %d logged in successfully", id)

	return u, nil
}
