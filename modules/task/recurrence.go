package task

import (
	"time"

	domain "github.com/example/pintask/domain/task"
	"github.com/google/uuid"
)

// NextDueDate computes a recurring task's next occurrence from its current
// due date and recurrence pattern.
//
// Frequencies:
//   - daily:   advance by interval days
//   - weekly:  advance by 7*interval days
//   - monthly: advance by interval calendar months via time.AddDate, which
//     normalizes month-end overflow by rolling into the following month
//     (Jan 31 + 1 month = Mar 2 or Mar 3)
//   - anything else, including an empty pattern: advance by one day
func NextDueDate(from time.Time, p domain.RecurrencePattern) time.Time {
	interval := p.Interval
	if interval < 1 {
		interval = 1
	}
	switch p.Type {
	case "daily":
		return from.AddDate(0, 0, interval)
	case "weekly":
		return from.AddDate(0, 0, 7*interval)
	case "monthly":
		return from.AddDate(0, interval, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}

// buildSuccessor materializes the next instance of a recurring task: a copy
// of the source with a fresh identity, pending status, and the computed next
// due date. The recurrence fields are carried forward so the chain continues.
func buildSuccessor(src *domain.Task, now time.Time) *domain.Task {
	from := now
	if src.DueDate != nil {
		from = *src.DueDate
	}
	next := NextDueDate(from, domain.ParseRecurrencePattern(src.RecurrencePattern))

	return &domain.Task{
		ID:                uuid.New().String(),
		Title:             src.Title,
		Description:       src.Description,
		Status:            domain.StatusPending,
		Priority:          src.Priority,
		DueDate:           &next,
		IsRecurring:       src.IsRecurring,
		RecurrencePattern: src.RecurrencePattern,
		AttachmentURL:     src.AttachmentURL,
		AttachmentType:    src.AttachmentType,
		UserID:            src.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
