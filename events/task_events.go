package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created, including
// successors materialized by the recurrence engine.
type TaskCreatedEvent struct {
	TaskID    string     `json:"task_id"`
	Title     string     `json:"title"`
	UserID    string     `json:"user_id"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskCompletedEvent is emitted when a task transitions into completed.
// It fires once per genuine pending-to-completed transition; re-saving an
// already completed task emits nothing.
type TaskCompletedEvent struct {
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	UserID      string    `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCompletedV1 is the typed event definition for task completion.
// Subject: events.task.v1.task-completed
var TaskCompletedV1 = helper.EventDefinition[TaskCompletedEvent](
	"task", "TaskCompleted", "v1",
)

// TaskRecurrenceScheduledEvent is emitted when completing a recurring task
// materializes its successor.
type TaskRecurrenceScheduledEvent struct {
	SourceTaskID    string    `json:"source_task_id"`
	SuccessorTaskID string    `json:"successor_task_id"`
	UserID          string    `json:"user_id"`
	NextDueDate     time.Time `json:"next_due_date"`
}

// TaskRecurrenceScheduledV1 is the typed event definition for recurrence
// successor creation. Subject: events.task.v1.task-recurrence-scheduled
var TaskRecurrenceScheduledV1 = helper.EventDefinition[TaskRecurrenceScheduledEvent](
	"task", "TaskRecurrenceScheduled", "v1",
)
