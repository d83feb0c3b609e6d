package service

import (
	"context"
	"errors"
	"fmt"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/repository"
)

// UserStore is the credential store the auth service depends on.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// LoginInput carries a login request.
type LoginInput struct {
	Email    string
	Password string
}

// AuthService registers identities and issues tokens for them.
type AuthService struct {
	users  UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a USER identity with a hashed password and returns a token
// for its username.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (auth.Token, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return auth.Token{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		Role:      models.RoleUser,
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return auth.Token{}, ErrDuplicateIdentity
		}
		return auth.Token{}, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user.Username)
}

// Authenticate verifies the email/password pair and returns a token for the
// stored username. Unknown emails and wrong passwords fail with distinct
// errors; callers exposing them to clients should not tell them apart.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) (auth.Token, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return auth.Token{}, ErrIdentityNotFound
		}
		return auth.Token{}, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.Password) {
		return auth.Token{}, ErrInvalidCredentials
	}

	return s.issue(user.Username)
}

func (s *AuthService) issue(username string) (auth.Token, error) {
	token, err := s.tokens.Issue(username)
	if err != nil {
		return auth.Token{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
