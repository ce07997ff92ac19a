// Package service contains the business logic layer: validation,
// normalization, and the rules that sit between HTTP and storage.
//
// Services accept primitives and return domain errors from the apperror
// package — they know nothing about HTTP status codes or SQL. The handler
// layer translates both directions.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/simple-todo/internal/apperror"
	"github.com/sakif/simple-todo/internal/model"
	"github.com/sakif/simple-todo/internal/repository"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// AuthService handles account registration and credential checks.
//
// There is no session state anywhere: every request that needs an identity
// proves it by credential match, and Login simply reports whether a match
// exists. Passwords are stored as given and compared exactly (a known
// security gap in this design).
type AuthService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger,
	}
}

// Register validates and creates a new account.
//
// The email is trimmed and lowercased before anything else, so "A@B.com" and
// "a@b.com" are the same account — the store's uniqueness check only ever
// sees the normalized form. Validation is deliberately loose: non-empty and
// contains "@". Real email verification needs a round trip to the mailbox;
// a stricter regex only rejects legitimate addresses.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "A valid email address is required.")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
	}

	user := &model.User{
		Email:    email,
		Password: password,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Conflict is a normal outcome (duplicate email), not a failure
		// worth an error-level log line.
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login returns the account matching the given credentials, or
// apperror.ErrUnauthorized if there is none. The email is normalized the
// same way Register normalizes it, so casing never locks anyone out.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.Int64("id", user.ID))

	return user, nil
}
