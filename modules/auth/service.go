package auth

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"time"

	domain "github.com/example/pintask/domain/user"
	"github.com/google/uuid"
)

var (
	// ErrInvalidPIN is returned when no active user matches the offered PIN.
	ErrInvalidPIN = errors.New("invalid PIN")
	// ErrInvalidEmail is returned when an email address does not parse.
	ErrInvalidEmail = errors.New("invalid email format")
)

// AuthService handles PIN authentication and user administration.
type AuthService struct {
	repo   *UserRepository
	hasher *PINHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PINHasher, jwt *JWTManager) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, jwt: jwt}
}

// Login authenticates by PIN. The PIN is the only credential: every active
// user's hash is checked until one matches. On success a JWT token pair is
// issued and the user's last-login timestamp is updated.
func (s *AuthService) Login(_ context.Context, pin string) (*domain.User, *TokenPair, error) {
	if !ValidatePINFormat(pin) {
		return nil, nil, ErrInvalidPINFormat
	}

	users, err := s.repo.FindActive()
	if err != nil {
		return nil, nil, err
	}

	var match *domain.User
	for i := range users {
		if s.hasher.Verify(pin, users[i].PINHash) {
			match = &users[i]
			break
		}
	}
	if match == nil {
		return nil, nil, ErrInvalidPIN
	}

	if err := s.repo.TouchLastLogin(match.ID); err != nil {
		// Login still succeeds; the timestamp is best-effort.
		log.Printf("[auth] failed to record last login for %s: %v", match.ID, err)
	}

	pair, err := s.issueTokens(match)
	if err != nil {
		return nil, nil, err
	}
	return match, pair, nil
}

// RefreshTokens exchanges a valid refresh token for a new token pair.
func (s *AuthService) RefreshTokens(_ context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidToken
	}
	return s.issueTokens(u)
}

// ValidateToken validates an access token and returns resolved claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*JWTClaims, error) {
	return s.jwt.ValidateAccessToken(token)
}

// GetUser returns a user by ID.
func (s *AuthService) GetUser(_ context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(id)
}

// ListUsers returns all users (admin operation).
func (s *AuthService) ListUsers(_ context.Context) ([]domain.User, error) {
	return s.repo.FindAll()
}

// CreateUser provisions a new user with the given PIN (admin operation).
func (s *AuthService) CreateUser(_ context.Context, email, fullName, pin string, role domain.Role) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if role == "" {
		role = domain.RoleClient
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailExists
	}

	hash, err := s.hasher.Hash(pin)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		FullName:  fullName,
		PINHash:   hash,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUserRequestFields captures the mutable user fields for admin updates.
// Nil pointers leave the corresponding field untouched.
type UpdateUserRequestFields struct {
	FullName *string
	Role     *domain.Role
	IsActive *bool
	NewPIN   *string
}

// UpdateUser mutates a user (admin operation). A new PIN replaces the stored
// hash.
func (s *AuthService) UpdateUser(_ context.Context, id string, fields UpdateUserRequestFields) (*domain.User, error) {
	u, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if fields.FullName != nil {
		u.FullName = *fields.FullName
	}
	if fields.Role != nil {
		u.Role = *fields.Role
	}
	if fields.IsActive != nil {
		u.IsActive = *fields.IsActive
	}
	if fields.NewPIN != nil {
		hash, err := s.hasher.Hash(*fields.NewPIN)
		if err != nil {
			return nil, err
		}
		u.PINHash = hash
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Save(u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes a user (admin operation).
func (s *AuthService) DeleteUser(_ context.Context, id string) error {
	return s.repo.Delete(id)
}

func (s *AuthService) issueTokens(u *domain.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}
