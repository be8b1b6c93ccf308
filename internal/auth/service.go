package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when login fails; it deliberately does
	// not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registration reuses an email address.
	ErrEmailTaken = errors.New("email already registered")
)

// Service implements account registration and login.
type Service struct {
	users  repository.UserRepository
	tokens *TokenManager
}

// NewService creates a new auth service.
func NewService(users repository.UserRepository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a user under a fresh tenant and returns it with a session token.
func (s *Service) Register(ctx context.Context, email, password, name string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, "", errors.New("a valid email is required")
	}
	if len(password) < 8 {
		return domain.User{}, "", errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(uuid.New(), email, strings.TrimSpace(name), string(hash))
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, "", ErrEmailTaken
		}
		return domain.User{}, "", err
	}

	token, err := s.tokens.Issue(created.ID, created.OrgID)
	if err != nil {
		return domain.User{}, "", err
	}
	return created, token, nil
}

// Login verifies credentials and returns the user with a session token.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.OrgID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}
