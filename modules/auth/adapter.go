package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// authAdapter wraps ServiceContainer for type-safe cross-module communication.
type authAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new adapter for auth services.
func NewAuthAdapter(container mono.ServiceContainer) AuthPort {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &authAdapter{container: container}
}

// Login authenticates a PIN via the login service.
func (a *authAdapter) Login(ctx context.Context, pin string) (*LoginResponse, error) {
	req := LoginRequest{PIN: pin}
	var resp LoginResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "login", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("login service call failed: %w", err)
	}
	return &resp, nil
}

// RefreshTokens exchanges a refresh token via the refresh-token service.
func (a *authAdapter) RefreshTokens(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp RefreshResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "refresh-token", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("refresh-token service call failed: %w", err)
	}
	return &resp, nil
}

// ValidateToken validates an access token via the validate-token service.
// Validation failures come back as an error rather than a degraded response
// so middleware can treat any non-nil error as unauthorized.
func (a *authAdapter) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "validate-token", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token service call failed: %w", err)
	}
	if !resp.Valid {
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: resp.UserID, Email: resp.Email, Role: resp.Role}, nil
}

// GetUser fetches a user via the get-user service.
func (a *authAdapter) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	req := GetUserRequest{UserID: userID}
	var resp UserResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-user", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get-user service call failed: %w", err)
	}
	return &resp, nil
}

// ListUsers lists all users via the list-users service.
func (a *authAdapter) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	req := ListUsersRequest{}
	var resp ListUsersResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-users", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-users service call failed: %w", err)
	}
	return &resp, nil
}

// CreateUser provisions a user via the create-user service.
func (a *authAdapter) CreateUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	var resp UserResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create-user", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create-user service call failed: %w", err)
	}
	return &resp, nil
}

// UpdateUser mutates a user via the update-user service.
func (a *authAdapter) UpdateUser(ctx context.Context, req *UpdateUserRequest) (*UserResponse, error) {
	var resp UserResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update-user", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("update-user service call failed: %w", err)
	}
	return &resp, nil
}

// DeleteUser removes a user via the delete-user service.
func (a *authAdapter) DeleteUser(ctx context.Context, userID string) error {
	req := DeleteUserRequest{UserID: userID}
	var resp DeleteUserResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete-user", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("delete-user service call failed: %w", err)
	}
	if !resp.Deleted {
		return fmt.Errorf("user not deleted: %s", userID)
	}
	return nil
}
