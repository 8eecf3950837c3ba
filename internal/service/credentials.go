// Package service provides authentication, session and content business
// logic, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Krackerr154/glabs-website/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the persistence operations
// required by the credential service.
type UserRepository interface {
	// GetByEmail returns the user with the exact email or models.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Upsert creates the user or replaces the password hash of an existing email.
	Upsert(ctx context.Context, user models.User) (*models.User, error)
	// UpdatePassword replaces the hash of an existing user.
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	// List returns all users.
	List(ctx context.Context) ([]models.User, error)
}

// CredentialService verifies and manages administrator credentials.
type CredentialService struct {
	repo UserRepository
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewCredentialService constructs a CredentialService. A cost of zero
// selects bcrypt.DefaultCost.
func NewCredentialService(repo UserRepository, cost int) *CredentialService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &CredentialService{repo: repo, cost: cost}
}

// HashPassword returns the bcrypt hash of password.
func (s *CredentialService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", models.NewValidationError("password", "required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyCredentials returns the id of the user owning email when password
// matches its hash. Unknown emails and wrong passwords both yield
// models.ErrInvalidCredentials.
func (s *CredentialService) VerifyCredentials(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		// Burn the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}
	return user.ID, nil
}

// EnsureAdmin creates the administrator or resets its password.
func (s *CredentialService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, models.NewValidationError("email", "required")
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	})
}

// SetPassword changes the password of an existing user.
func (s *CredentialService) SetPassword(ctx context.Context, email, password string) error {
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, email, hash)
}

// Users lists the stored users.
func (s *CredentialService) Users(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *CredentialService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}

// IsBcryptHash reports whether hash looks like a bcrypt hash.
func IsBcryptHash(hash string) bool {
	_, err := bcrypt.Cost([]byte(hash))
	return err == nil
}
