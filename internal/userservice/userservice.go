package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/ddxlab/ddxbrain/internal/interfaces"
	"github.com/ddxlab/ddxbrain/internal/models"
	"github.com/ddxlab/ddxbrain/pkg/helper"

	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound is returned by GetUser when no user matches the given id.
var ErrNotFound = errors.New(ErrUserNotFound)

type UserService struct {
	UserRepo interfaces.UserRepository
	Logger   interfaces.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(repo interfaces.UserRepository, logger interfaces.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		Logger:   logger,
	}
}

// RegisterUser hashes the password and adds the user via the repository.
func (s *UserService) RegisterUser(ctx context.Context, username, password string) (string, error) {
	funcName := helper.GetFuncName()
	s.Logger.Info("Registering user", "func", funcName, "user", username)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	user := models.User{
		Username: username,
		Password: string(hashedPassword),
	}

	userID, err := s.UserRepo.AddUser(ctx, user)
	if err != nil {
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToRegisterUser, err)
	}
	s.Logger.Info("User registered successfully", "func", funcName, "user", username, "ID", userID)
	return userID, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (bool, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Authenticating user", "func", funcName, "user", username)
	user, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return false, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if user == nil {
		s.Logger.Warn(ErrUserNotFound, "func", funcName, "user", username)
		return false, ErrNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		s.Logger.Warn(ErrInvalidPassword, "func", funcName, "user", username)
		return false, fmt.Errorf("%s: %w", ErrInvalidPassword, err)
	}

	s.Logger.Info("User authenticated successfully", "func", funcName, "user", username)
	return true, nil
}

// GetUser looks up a user by its id. Returns ErrNotFound when no user matches.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Looking up user", "func", funcName, "id", id)
	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "id", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
