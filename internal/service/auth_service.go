package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/errors"
	"toiletadvisor/internal/model"
	"toiletadvisor/internal/repository"
)

// AuthService handles registration, login and session management.
type AuthService interface {
	Register(ctx context.Context, name, password string) (*model.User, error)
	// Login verifies the credentials, opens a session and writes the session cookie.
	// Nothing is written when the credentials are rejected.
	Login(ctx context.Context, cookies auth.Cookies, name, password string) (*model.User, error)
	Logout(ctx context.Context, cookies auth.Cookies, sessionID string) error
	// GetSession returns nil without error when the session's user no longer exists.
	GetSession(ctx context.Context, userID uuid.UUID) (*model.SessionUser, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type authService struct {
	users         repository.UserRepository
	sessions      auth.SessionStoreInterface
	hasher        auth.PasswordHasher
	secureCookies bool
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, sessions auth.SessionStoreInterface, hasher auth.PasswordHasher, secureCookies bool) AuthService {
	return &authService{
		users:         users,
		sessions:      sessions,
		hasher:        hasher,
		secureCookies: secureCookies,
	}
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, name, password string) (*model.User, error) {
	existing, err := s.users.FindByName(ctx, name)
	if err == nil && existing != nil {
		return nil, errors.ErrNameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check name: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrNameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, cookies auth.Cookies, name, password string) (*model.User, error) {
	user, err := s.users.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, errors.ErrInvalidCredentials
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, token, user.ID, auth.SessionTTL); err != nil {
		return nil, err
	}

	cookies.Set(auth.SessionCookieName, token, auth.SessionCookieOptions(s.secureCookies))
	return user, nil
}

func (s *authService) Logout(ctx context.Context, cookies auth.Cookies, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	cookies.Delete(auth.SessionCookieName, auth.SessionCookieOptions(s.secureCookies))
	return nil
}

func (s *authService) GetSession(ctx context.Context, userID uuid.UUID) (*model.SessionUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &model.SessionUser{ID: user.ID, Name: user.Name, IsAdmin: user.IsAdmin}, nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrInvalidSession
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, currentPassword) {
		return errors.ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
