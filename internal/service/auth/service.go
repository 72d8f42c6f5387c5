package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/crypto"
	"github.com/inkwell/inkwell/internal/domain"
	"github.com/inkwell/inkwell/internal/repository"
)

// ErrUsernameTaken is returned when signup names an already registered user.
var ErrUsernameTaken = errors.New("username already taken")

// ErrInvalidCredentials is returned for every failed login. It deliberately
// does not say whether the username exists.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Sessions is the session lifecycle the service drives.
type Sessions interface {
	Create(ctx context.Context, username string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
}

// Service handles authentication workflows.
type Service struct {
	users    repository.UserRepository
	sessions Sessions
	logger   *slog.Logger
	cost     int
}

// New constructs a Service. cost tunes bcrypt; zero means the default.
func New(users repository.UserRepository, sessions Sessions, logger *slog.Logger, cost int) Service {
	return Service{users: users, sessions: sessions, logger: logger, cost: cost}
}

// Register creates an account. It does not sign the new user in; no session
// is created until the first login.
func (s Service) Register(ctx context.Context, username, password string) error {
	hash, err := crypto.HashPassword(password, s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", "username", username)
	return nil
}

// Login authenticates a user and returns a fresh session token. Unknown
// usernames and wrong passwords fail identically, including the cost of the
// hash comparison.
func (s Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			crypto.CheckPassword(crypto.DummyHash, password)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}
	if !crypto.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	token, err := s.sessions.Create(ctx, user.Username)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("user logged in", "username", username)
	return token, nil
}

// Logout destroys the session unconditionally.
func (s Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// CurrentUser returns the username a token authenticates. Collaborators use
// it to gate authoring actions.
func (s Service) CurrentUser(ctx context.Context, token string) (string, error) {
	return s.sessions.Resolve(ctx, token)
}
