package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Krackerr154/glabs-website/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	UpsertFunc         func(ctx context.Context, user models.User) (*models.User, error)
	UpdatePasswordFunc func(ctx context.Context, email, passwordHash string) error
	ListFunc           func(ctx context.Context) ([]models.User, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}
func (m *mockUserRepo) Upsert(ctx context.Context, user models.User) (*models.User, error) {
	return m.UpsertFunc(ctx, user)
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return m.UpdatePasswordFunc(ctx, email, passwordHash)
}
func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	return m.ListFunc(ctx)
}

func adminRepo(t *testing.T, email, password string) *mockUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	return &mockUserRepo{
		GetByEmailFunc: func(_ context.Context, got string) (*models.User, error) {
			if got != email {
				return nil, models.ErrNotFound
			}
			return &models.User{ID: "admin-id", Email: email, PasswordHash: string(hash)}, nil
		},
	}
}

func TestVerifyCredentials(t *testing.T) {
	repo := adminRepo(t, "admin@example.com", "s3cret")
	svc := NewCredentialService(repo, bcrypt.MinCost)

	tests := []struct {
		name     string
		email    string
		password string
		wantID   string
		wantErr  error
	}{
		{"valid", "admin@example.com", "s3cret", "admin-id", nil},
		{"wrong password", "admin@example.com", "s3cret!", "", models.ErrInvalidCredentials},
		{"empty password", "admin@example.com", "", "", models.ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "s3cret", "", models.ErrInvalidCredentials},
		{"email case differs", "Admin@example.com", "s3cret", "", models.ErrInvalidCredentials},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := svc.VerifyCredentials(context.Background(), tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("VerifyCredentials error = %v; want %v", err, tc.wantErr)
			}
			if id != tc.wantID {
				t.Errorf("VerifyCredentials id = %q; want %q", id, tc.wantID)
			}
		})
	}
}

func TestVerifyCredentials_StorageError(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFunc: func(context.Context, string) (*models.User, error) {
			return nil, models.ErrStorageUnavailable
		},
	}
	svc := NewCredentialService(repo, bcrypt.MinCost)

	_, err := svc.VerifyCredentials(context.Background(), "admin@example.com", "pw")
	if !errors.Is(err, models.ErrStorageUnavailable) {
		t.Fatalf("VerifyCredentials error = %v; want ErrStorageUnavailable", err)
	}
	if errors.Is(err, models.ErrInvalidCredentials) {
		t.Error("storage failure must not look like bad credentials")
	}
}

func TestEnsureAdmin(t *testing.T) {
	var stored models.User
	repo := &mockUserRepo{
		UpsertFunc: func(_ context.Context, u models.User) (*models.User, error) {
			stored = u
			return &u, nil
		},
	}
	svc := NewCredentialService(repo, bcrypt.MinCost)

	user, err := svc.EnsureAdmin(context.Background(), "  admin@example.com ", "hunter2")
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Errorf("Email = %q; want trimmed address", user.Email)
	}
	if user.ID == "" {
		t.Error("expected a generated id")
	}
	if stored.PasswordHash == "hunter2" || !IsBcryptHash(stored.PasswordHash) {
		t.Fatalf("password stored as %q; want a bcrypt hash", stored.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestEnsureAdmin_Validation(t *testing.T) {
	repo := &mockUserRepo{
		UpsertFunc: func(context.Context, models.User) (*models.User, error) {
			t.Fatal("Upsert must not be called for invalid input")
			return nil, nil
		},
	}
	svc := NewCredentialService(repo, bcrypt.MinCost)

	_, err := svc.EnsureAdmin(context.Background(), " ", "pw")
	if verr, ok := models.AsValidationError(err); !ok || verr.Field != "email" {
		t.Errorf("EnsureAdmin(empty email) error = %v; want email validation error", err)
	}
	_, err = svc.EnsureAdmin(context.Background(), "admin@example.com", "")
	if verr, ok := models.AsValidationError(err); !ok || verr.Field != "password" {
		t.Errorf("EnsureAdmin(empty password) error = %v; want password validation error", err)
	}
}

func TestSetPassword(t *testing.T) {
	called := false
	repo := &mockUserRepo{
		UpdatePasswordFunc: func(_ context.Context, email, hash string) error {
			called = true
			if email != "admin@example.com" {
				t.Errorf("UpdatePassword email = %q", email)
			}
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-pass")) != nil {
				t.Error("UpdatePassword received a hash that does not match")
			}
			return nil
		},
	}
	svc := NewCredentialService(repo, bcrypt.MinCost)

	if err := svc.SetPassword(context.Background(), "admin@example.com", "new-pass"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}
	if !called {
		t.Fatal("expected UpdatePassword to be called on repo")
	}
}

func TestSetPassword_UnknownUser(t *testing.T) {
	repo := &mockUserRepo{
		UpdatePasswordFunc: func(context.Context, string, string) error {
			return models.ErrNotFound
		},
	}
	svc := NewCredentialService(repo, bcrypt.MinCost)

	if err := svc.SetPassword(context.Background(), "ghost@example.com", "pw"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("SetPassword error = %v; want ErrNotFound", err)
	}
}

func TestIsBcryptHash(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("x"), bcrypt.MinCost)
	if !IsBcryptHash(string(hash)) {
		t.Error("IsBcryptHash(real hash) = false")
	}
	if IsBcryptHash("plaintext") {
		t.Error("IsBcryptHash(plaintext) = true")
	}
}
