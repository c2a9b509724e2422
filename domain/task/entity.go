package task

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Priority drives display color in the clients.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrForbidden is returned when a caller acts on a task they do not own.
	ErrForbidden = errors.New("not allowed to access this task")
)

// Task is a single work item owned by exactly one user. Tasks flagged
// recurring spawn a pending successor when they transition into completed;
// the completed instance is retained.
type Task struct {
	ID                string     `gorm:"primaryKey;type:text"`
	Title             string     `gorm:"not null;type:text"`
	Description       string     `gorm:"type:text"`
	Status            Status     `gorm:"type:text;default:pending;index"`
	Priority          Priority   `gorm:"type:text;default:medium"`
	DueDate           *time.Time `gorm:"index"`
	IsRecurring       bool
	RecurrencePattern string `gorm:"type:text"`
	AttachmentURL     string `gorm:"type:text"`
	AttachmentType    string `gorm:"type:text"`
	UserID            string `gorm:"not null;type:text;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// RecurrencePattern is the decoded form of the stored recurrence JSON,
// e.g. {"type":"weekly","interval":2}.
type RecurrencePattern struct {
	Type     string
	Interval int
}

// ParseRecurrencePattern decodes a stored pattern string. Decoding is
// deliberately tolerant: an empty or malformed document yields a zero Type
// (which the recurrence engine treats as "advance one day"), and a missing
// or non-numeric interval defaults to 1. Intervals below 1 are clamped to 1.
func ParseRecurrencePattern(raw string) RecurrencePattern {
	p := RecurrencePattern{Interval: 1}
	if raw == "" {
		return p
	}

	var aux struct {
		Type     string          `json:"type"`
		Interval json.RawMessage `json:"interval"`
	}
	if err := json.Unmarshal([]byte(raw), &aux); err != nil {
		return p
	}
	p.Type = aux.Type

	if n, ok := decodeInterval(aux.Interval); ok && n >= 1 {
		p.Interval = n
	}
	return p
}

// decodeInterval accepts both numeric and quoted-numeric interval values,
// matching what older clients stored.
func decodeInterval(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			return v, true
		}
	}
	return 0, false
}
