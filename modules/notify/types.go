package notify

import (
	"context"
	"time"
)

// RunDigestRequest triggers a digest run. DueWithin overrides the default
// look-ahead window when positive.
type RunDigestRequest struct {
	DueWithin time.Duration `json:"due_within,omitempty"`
}

// RunDigestResponse summarizes a digest run.
type RunDigestResponse struct {
	UsersProcessed int `json:"users_processed"`
	DigestsSent    int `json:"digests_sent"`
	Failures       int `json:"failures"`
}

// ListLogsRequest is the request for reading recent notification logs.
type ListLogsRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ListLogsResponse is the response for reading recent notification logs.
type ListLogsResponse struct {
	Logs  []LogResponse `json:"logs"`
	Total int           `json:"total"`
}

// LogResponse is the wire form of a notification log entry.
type LogResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Recipient string     `json:"recipient"`
	Channel   string     `json:"channel"`
	Status    string     `json:"status"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	TaskCount int        `json:"task_count"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotifyPort defines the interface for notification operations consumed by
// other modules.
type NotifyPort interface {
	RunDigest(ctx context.Context) (*RunDigestResponse, error)
	ListLogs(ctx context.Context, limit int) (*ListLogsResponse, error)
}
