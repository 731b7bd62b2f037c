package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// Service provides admin authentication. There is no self-service signup:
// admin accounts are bootstrapped from configuration at startup.
type Service struct {
	users    store.UserStore
	sessions store.SessionStore
	maxAge   time.Duration
}

// NewService creates a new auth service with the given stores and session max age in hours.
func NewService(users store.UserStore, sessions store.SessionStore, maxAgeHours int) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		maxAge:   time.Duration(maxAgeHours) * time.Hour,
	}
}

// EnsureAdmin guarantees an admin user with the given email exists. An
// empty password skips bootstrap entirely, which leaves the admin UI
// unreachable until one is configured.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		slog.Warn("admin bootstrap skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}
	if len(password) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.users.CreateUser(ctx, email, hash); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	slog.Info("created admin user", "email", email)
	return nil
}

// Login authenticates a user by email and password, returning a new session.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, err := NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	expiresAt := time.Now().Add(s.maxAge)
	session, err := s.sessions.CreateSession(ctx, token, user.ID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Logout deletes the session identified by the given token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// ValidateSession checks if the given token corresponds to a valid session
// and returns the associated user.
func (s *Service) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		return nil, errors.New("invalid session")
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	return user, nil
}
