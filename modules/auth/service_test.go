package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/pintask/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) *AuthService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	jwtManager := NewJWTManager(JWTConfig{
		SecretKey:            "test-secret",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
		Issuer:               "pintask-test",
	})
	// Low cost keeps login scans fast in tests.
	return NewAuthService(NewUserRepository(db), &PINHasher{cost: 4}, jwtManager)
}

func TestCreateUserAndLogin(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice@example.com", "Alice Johnson", "1234", domain.RoleClient)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.PINHash == "1234" {
		t.Fatal("CreateUser() stored the plaintext PIN")
	}
	if !u.IsActive {
		t.Error("CreateUser() user not active")
	}

	logged, pair, err := s.Login(ctx, "1234")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if logged.ID != u.ID {
		t.Errorf("Login() user = %s, want %s", logged.ID, u.ID)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("Login() returned empty tokens")
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want %q", pair.TokenType, "Bearer")
	}
}

func TestLoginWrongPIN(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice@example.com", "Alice", "1234", domain.RoleClient); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, _, err := s.Login(ctx, "9999"); !errors.Is(err, ErrInvalidPIN) {
		t.Errorf("Login(wrong PIN) error = %v, want ErrInvalidPIN", err)
	}
	if _, _, err := s.Login(ctx, "12"); !errors.Is(err, ErrInvalidPINFormat) {
		t.Errorf("Login(short PIN) error = %v, want ErrInvalidPINFormat", err)
	}
}

func TestLoginIgnoresInactiveUsers(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice@example.com", "Alice", "1234", domain.RoleClient)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	inactive := false
	if _, err := s.UpdateUser(ctx, u.ID, UpdateUserRequestFields{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	if _, _, err := s.Login(ctx, "1234"); !errors.Is(err, ErrInvalidPIN) {
		t.Errorf("Login(deactivated user) error = %v, want ErrInvalidPIN", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice@example.com", "Alice", "1234", domain.RoleClient); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice@example.com", "Other Alice", "5678", domain.RoleClient); !errors.Is(err, domain.ErrEmailExists) {
		t.Errorf("CreateUser(duplicate) error = %v, want ErrEmailExists", err)
	}
}

func TestCreateUserInvalidEmail(t *testing.T) {
	s := setupTestService(t)
	if _, err := s.CreateUser(context.Background(), "not-an-email", "Alice", "1234", domain.RoleClient); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("CreateUser(bad email) error = %v, want ErrInvalidEmail", err)
	}
}

func TestRefreshTokens(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice@example.com", "Alice", "1234", domain.RoleClient); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	_, pair, err := s.Login(ctx, "1234")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	fresh, err := s.RefreshTokens(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshTokens() error = %v", err)
	}
	if fresh.AccessToken == "" {
		t.Error("RefreshTokens() returned empty access token")
	}

	// An access token must not act as a refresh token.
	if _, err := s.RefreshTokens(ctx, pair.AccessToken); err == nil {
		t.Error("RefreshTokens(access token) error = nil, want error")
	}
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice@example.com", "Alice", "1234", domain.RoleClient)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	_, pair, err := s.Login(ctx, "1234")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	inactive := false
	if _, err := s.UpdateUser(ctx, u.ID, UpdateUserRequestFields{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	if _, err := s.RefreshTokens(ctx, pair.RefreshToken); err == nil {
		t.Error("RefreshTokens(deactivated user) error = nil, want error")
	}
}

func TestUpdateUserChangesPIN(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice@example.com", "Alice", "1234", domain.RoleClient)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	newPIN := "567890"
	if _, err := s.UpdateUser(ctx, u.ID, UpdateUserRequestFields{NewPIN: &newPIN}); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	if _, _, err := s.Login(ctx, "1234"); !errors.Is(err, ErrInvalidPIN) {
		t.Error("Login(old PIN) succeeded after PIN change")
	}
	if _, _, err := s.Login(ctx, "567890"); err != nil {
		t.Errorf("Login(new PIN) error = %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice@example.com", "Alice", "1234", domain.RoleClient)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := s.GetUser(ctx, u.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetUser(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteUser(ctx, u.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteUser(missing) error = %v, want ErrNotFound", err)
	}
}
