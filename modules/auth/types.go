package auth

import (
	"context"
	"time"
)

// TokenPair represents access and refresh tokens issued after login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Claims is the identity resolved from a validated access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}

// LoginRequest represents a PIN login request.
type LoginRequest struct {
	PIN string `json:"pin"`
}

// LoginResponse represents a login response with tokens.
type LoginResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse represents a token refresh response.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GetUserRequest represents a get-user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// UserResponse is the wire form of a user.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ListUsersRequest represents a list-users request (admin).
type ListUsersRequest struct{}

// ListUsersResponse represents a list-users response.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// CreateUserRequest represents an admin user-provisioning request.
type CreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	PIN      string `json:"pin"`
	Role     string `json:"role,omitempty"`
}

// UpdateUserRequest represents an admin user update. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	UserID   string  `json:"user_id"`
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	NewPIN   *string `json:"new_pin,omitempty"`
}

// DeleteUserRequest represents an admin user deletion.
type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

// DeleteUserResponse represents the outcome of a user deletion.
type DeleteUserResponse struct {
	Deleted bool `json:"deleted"`
}

// AuthPort is the contract other modules use to reach auth services.
type AuthPort interface {
	Login(ctx context.Context, pin string) (*LoginResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*RefreshResponse, error)
	ValidateToken(ctx context.Context, token string) (*Claims, error)
	GetUser(ctx context.Context, userID string) (*UserResponse, error)
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, req *UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, userID string) error
}
