package task

import (
	"context"
	"time"
)

// Caller identifies who is performing an operation. Non-admin callers may
// only act on their own tasks.
type Caller struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

// CreateTaskRequest is the request for creating a task. AssigneeID is
// honored for admin callers only; everyone else creates tasks for themselves.
type CreateTaskRequest struct {
	Caller            Caller     `json:"caller"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Priority          string     `json:"priority,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	IsRecurring       bool       `json:"is_recurring,omitempty"`
	RecurrencePattern string     `json:"recurrence_pattern,omitempty"`
	AttachmentURL     string     `json:"attachment_url,omitempty"`
	AttachmentType    string     `json:"attachment_type,omitempty"`
	AssigneeID        string     `json:"assignee_id,omitempty"`
}

// GetTaskRequest is the request for fetching a task.
type GetTaskRequest struct {
	Caller Caller `json:"caller"`
	TaskID string `json:"task_id"`
}

// ListTasksRequest is the request for listing tasks. UserID is honored for
// admin callers only.
type ListTasksRequest struct {
	Caller Caller `json:"caller"`
	UserID string `json:"user_id,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// ListDueTasksRequest requests a user's tasks that carry a due date.
type ListDueTasksRequest struct {
	UserID string `json:"user_id"`
}

// ListPendingTasksRequest requests a user's undone tasks due at or before
// DueBefore.
type ListPendingTasksRequest struct {
	UserID    string    `json:"user_id"`
	DueBefore time.Time `json:"due_before"`
}

// UpdateTaskRequest is the request for updating a task. Nil fields are left
// untouched. Setting Status to "completed" on a recurring task triggers the
// recurrence engine.
type UpdateTaskRequest struct {
	Caller            Caller     `json:"caller"`
	TaskID            string     `json:"task_id"`
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Status            *string    `json:"status,omitempty"`
	Priority          *string    `json:"priority,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	IsRecurring       *bool      `json:"is_recurring,omitempty"`
	RecurrencePattern *string    `json:"recurrence_pattern,omitempty"`
}

// UpdateTaskResponse carries the updated task. SuccessorError is populated
// when the completion succeeded but the recurrence successor could not be
// created; the completion itself is never rolled back for that.
type UpdateTaskResponse struct {
	Task           TaskResponse `json:"task"`
	SuccessorError string       `json:"successor_error,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	Caller Caller `json:"caller"`
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurrencePattern string     `json:"recurrence_pattern,omitempty"`
	AttachmentURL     string     `json:"attachment_url,omitempty"`
	AttachmentType    string     `json:"attachment_type,omitempty"`
	UserID            string     `json:"user_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TaskPort defines the interface for task operations consumed by other
// modules (the HTTP API, the calendar aggregator, the digest job).
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, caller Caller, taskID string) (*TaskResponse, error)
	ListTasks(ctx context.Context, caller Caller, userID string) (*ListTasksResponse, error)
	ListDueTasks(ctx context.Context, userID string) ([]TaskResponse, error)
	ListPendingTasks(ctx context.Context, userID string, dueBefore time.Time) ([]TaskResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*UpdateTaskResponse, error)
	DeleteTask(ctx context.Context, caller Caller, taskID string) error
}
