// Package auth implements brand-scoped credential checks and the session
// login/logout endpoints.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/winside-retail/backoffice/internal/shared"
	"github.com/winside-retail/backoffice/internal/users"
)

// UserSource looks up accounts for credential checks.
type UserSource interface {
	FindByEmail(ctx context.Context, brand, email string) (*users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	source UserSource
}

// NewService constructs a new Service.
func NewService(source UserSource) *Service {
	return &Service{source: source}
}

// Authenticate validates brand-scoped email/password credentials. Every
// failure path returns the same error so callers cannot probe for accounts,
// and only approved accounts pass.
func (s *Service) Authenticate(ctx context.Context, brand, email, password string) (*users.User, error) {
	user, err := s.source.FindByEmail(ctx, brand, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if user.Status != users.StatusApproved {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}
