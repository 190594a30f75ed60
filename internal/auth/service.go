package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an active user account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, req.Email, string(hash))
}

// Login validates the credentials and issues a bearer token. The session row
// in postgres is the audit record of the issue.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip, ua string) (*TokenResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSession(ctx, token, user.ID, expiresAt, ip, ua); err != nil {
		return nil, err
	}
	return &TokenResponse{Token: token, ExpiresAt: expiresAt, UserID: user.ID}, nil
}

// Logout revokes the token and removes its audit row.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	return s.repo.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to a user id.
func (s *Service) Authenticate(ctx context.Context, token string) (int64, error) {
	userID, err := s.tokens.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			return 0, err
		}
		return 0, fmt.Errorf("authenticate: %w", err)
	}
	return userID, nil
}
