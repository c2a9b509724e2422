package api

import "time"

// LoginRequest represents a PIN login request.
type LoginRequest struct {
	PIN string `json:"pin"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// LoginResponse carries the authenticated user alongside the tokens.
type LoginResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	TokenResponse
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Priority          string     `json:"priority,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	IsRecurring       bool       `json:"is_recurring,omitempty"`
	RecurrencePattern string     `json:"recurrence_pattern,omitempty"`
	AttachmentURL     string     `json:"attachment_url,omitempty"`
	AttachmentType    string     `json:"attachment_type,omitempty"`
	AssigneeID        string     `json:"assignee_id,omitempty"`
}

// UpdateTaskRequest represents a task update request. Absent fields are
// left untouched.
type UpdateTaskRequest struct {
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Status            *string    `json:"status,omitempty"`
	Priority          *string    `json:"priority,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	IsRecurring       *bool      `json:"is_recurring,omitempty"`
	RecurrencePattern *string    `json:"recurrence_pattern,omitempty"`
}

// AddCalendarRequest represents a feed source registration request.
type AddCalendarRequest struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
	Color string `json:"color,omitempty"`
}

// CreateAgentRequest represents an agent registration request.
type CreateAgentRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	URL             string `json:"url"`
	OpenInNewWindow bool   `json:"open_in_new_window,omitempty"`
}

// UpdateAgentRequest represents an agent update request. Absent fields are
// left untouched.
type UpdateAgentRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	URL             *string `json:"url,omitempty"`
	OpenInNewWindow *bool   `json:"open_in_new_window,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

// CreateUserRequest represents an admin user provisioning request.
type CreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	PIN      string `json:"pin"`
	Role     string `json:"role,omitempty"`
}

// UpdateUserRequest represents an admin user update request. Absent fields
// are left untouched.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	NewPIN   *string `json:"new_pin,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
