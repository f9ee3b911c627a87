package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargegrid/internal/models"
	"chargegrid/internal/password"
	"chargegrid/internal/repository"
)

// UserStore is the account storage contract used by the service.
type UserStore interface {
	Create(ctx context.Context, user *models.UserAccount) error
	GetByID(ctx context.Context, userID int64) (*models.UserAccount, error)
	GetByLogin(ctx context.Context, login string) (*models.UserAccount, error)
	List(ctx context.Context) ([]models.UserAccount, error)
	Update(ctx context.Context, user *models.UserAccount) error
	Delete(ctx context.Context, userID int64) error
}

// CreateUserInput carries the fields of a new account.
type CreateUserInput struct {
	LoginName string
	Password  string
	IsAdmin   bool
}

// UpdateUserInput carries account changes. An empty Password keeps the
// current one.
type UpdateUserInput struct {
	UserID    int64
	LoginName string
	Password  string
	IsAdmin   bool
}

// AccountService manages user accounts. Passwords are stored bcrypt-hashed;
// each account carries an opaque public id for external reference.
type AccountService struct {
	users  UserStore
	hasher password.Hasher
	logger *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(users UserStore, hasher password.Hasher, logger *zap.Logger) *AccountService {
	return &AccountService{users: users, hasher: hasher, logger: logger}
}

// CreateUser registers a new account. Input is validated before any store
// write; the unique index on the login column backs the duplicate pre-check
// against races.
func (s *AccountService) CreateUser(ctx context.Context, input CreateUserInput) (*models.UserAccount, error) {
	login := strings.TrimSpace(input.LoginName)
	if login == "" {
		return nil, fmt.Errorf("%w: login name required", ErrValidation)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password required", ErrValidation)
	}

	if _, err := s.users.GetByLogin(ctx, login); err == nil {
		return nil, ErrLoginTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.UserAccount{
		LoginName:    login,
		PasswordHash: hash,
		IsAdmin:      input.IsAdmin,
		PublicID:     uuid.NewString(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrLoginExists) {
			return nil, ErrLoginTaken
		}
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("login", user.LoginName))
	return user, nil
}

// UpdateUser renames an account, optionally replaces its password and sets
// the admin flag.
func (s *AccountService) UpdateUser(ctx context.Context, input UpdateUserInput) (*models.UserAccount, error) {
	login := strings.TrimSpace(input.LoginName)
	if login == "" {
		return nil, fmt.Errorf("%w: login name required", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if other, err := s.users.GetByLogin(ctx, login); err == nil {
		if other.ID != user.ID {
			return nil, ErrLoginTaken
		}
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user.LoginName = login
	user.IsAdmin = input.IsAdmin
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrLoginExists):
			return nil, ErrLoginTaken
		}
		return nil, err
	}

	s.logger.Info("user updated", zap.Int64("user_id", user.ID), zap.String("login", user.LoginName))
	return user, nil
}

// DeleteUser removes an account; its assignment rows cascade in the store.
func (s *AccountService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}

// ListUsers returns all accounts ordered by login name.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.UserAccount, error) {
	return s.users.List(ctx)
}
