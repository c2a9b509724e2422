package task

import (
	"context"
	"fmt"
	"log"
	"time"

	domain "github.com/example/pintask/domain/task"
	"github.com/example/pintask/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// TaskService implements task CRUD with ownership enforcement and the
// recurrence engine.
type TaskService struct {
	repo     *TaskRepository
	eventBus mono.EventBus
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// SetEventBus injects the event bus for task lifecycle events. Absent a bus,
// events are simply not emitted.
func (s *TaskService) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

// Create creates a task. Non-admin callers always own what they create;
// admins may assign to another user via AssigneeID.
func (s *TaskService) Create(_ context.Context, req *CreateTaskRequest) (*domain.Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	ownerID := req.Caller.UserID
	if req.Caller.IsAdmin && req.AssigneeID != "" {
		ownerID = req.AssigneeID
	}

	priority := domain.Priority(req.Priority)
	if req.Priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, fmt.Errorf("invalid priority: %s", req.Priority)
	}

	now := time.Now()
	t := &domain.Task{
		ID:                uuid.New().String(),
		Title:             req.Title,
		Description:       req.Description,
		Status:            domain.StatusPending,
		Priority:          priority,
		DueDate:           req.DueDate,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
		AttachmentURL:     req.AttachmentURL,
		AttachmentType:    req.AttachmentType,
		UserID:            ownerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.emitCreated(t)
	return t, nil
}

// Get returns a task, enforcing that non-admin callers only see their own.
func (s *TaskService) Get(_ context.Context, caller Caller, taskID string) (*domain.Task, error) {
	t, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && t.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// List returns a user's tasks, newest first. Admins may list any user's
// tasks; everyone else gets their own regardless of the requested user.
func (s *TaskService) List(_ context.Context, caller Caller, userID string) ([]domain.Task, error) {
	target := caller.UserID
	if caller.IsAdmin && userID != "" {
		target = userID
	}
	return s.repo.FindByUserID(target)
}

// ListDue returns a user's tasks carrying a due date, ordered by due date.
func (s *TaskService) ListDue(_ context.Context, userID string) ([]domain.Task, error) {
	return s.repo.FindDueByUserID(userID)
}

// ListPendingBefore returns a user's undone tasks due at or before the
// cutoff.
func (s *TaskService) ListPendingBefore(_ context.Context, userID string, cutoff time.Time) ([]domain.Task, error) {
	return s.repo.FindPendingBefore(userID, cutoff)
}

// Update applies the non-nil fields of the request. Transitioning a
// recurring task into completed triggers the recurrence engine exactly once
// per genuine transition; completing an already completed task, or a
// non-recurring one, spawns nothing. A failure to create the successor never
// rolls back the completion; it is reported via successorErr.
func (s *TaskService) Update(_ context.Context, req *UpdateTaskRequest) (*domain.Task, string, error) {
	t, err := s.repo.FindByID(req.TaskID)
	if err != nil {
		return nil, "", err
	}
	if !req.Caller.IsAdmin && t.UserID != req.Caller.UserID {
		return nil, "", domain.ErrForbidden
	}

	completing := false
	if req.Status != nil {
		status := domain.Status(*req.Status)
		if !domain.ValidStatus(status) {
			return nil, "", fmt.Errorf("invalid status: %s", *req.Status)
		}
		completing = status == domain.StatusCompleted
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		if !domain.ValidPriority(priority) {
			return nil, "", fmt.Errorf("invalid priority: %s", *req.Priority)
		}
		t.Priority = priority
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.IsRecurring != nil {
		t.IsRecurring = *req.IsRecurring
	}
	if req.RecurrencePattern != nil {
		t.RecurrencePattern = *req.RecurrencePattern
	}
	if req.Status != nil && !completing {
		t.Status = domain.Status(*req.Status)
	}
	t.UpdatedAt = time.Now()

	if !completing {
		if err := s.repo.Save(t); err != nil {
			return nil, "", fmt.Errorf("failed to update task: %w", err)
		}
		return t, "", nil
	}

	// Completion goes through the conditional update so two concurrent
	// requests cannot both observe the transition.
	transitioned, err := s.repo.CompleteIfNotCompleted(t.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to complete task: %w", err)
	}
	t.Status = domain.StatusCompleted
	if err := s.repo.Save(t); err != nil {
		return nil, "", fmt.Errorf("failed to update task: %w", err)
	}
	if !transitioned {
		return t, "", nil
	}

	s.emitCompleted(t)

	var successorErr string
	if t.IsRecurring {
		successor := buildSuccessor(t, time.Now())
		if err := s.repo.Create(successor); err != nil {
			log.Printf("[task] failed to create recurrence successor for %s: %v", t.ID, err)
			successorErr = fmt.Sprintf("failed to schedule next occurrence: %v", err)
		} else {
			s.emitRecurrenceScheduled(t, successor)
			s.emitCreated(successor)
		}
	}

	return t, successorErr, nil
}

// Delete removes a task, enforcing ownership for non-admin callers.
func (s *TaskService) Delete(_ context.Context, caller Caller, taskID string) error {
	t, err := s.repo.FindByID(taskID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin && t.UserID != caller.UserID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(taskID)
}

func (s *TaskService) emitCreated(t *domain.Task) {
	if s.eventBus == nil {
		return
	}
	event := events.TaskCreatedEvent{
		TaskID:    t.ID,
		Title:     t.Title,
		UserID:    t.UserID,
		DueDate:   t.DueDate,
		CreatedAt: t.CreatedAt,
	}
	if err := events.TaskCreatedV1.Publish(s.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", t.ID, err)
	}
}

func (s *TaskService) emitCompleted(t *domain.Task) {
	if s.eventBus == nil {
		return
	}
	event := events.TaskCompletedEvent{
		TaskID:      t.ID,
		Title:       t.Title,
		UserID:      t.UserID,
		CompletedAt: time.Now(),
	}
	if err := events.TaskCompletedV1.Publish(s.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskCompleted event for task %s: %v", t.ID, err)
	}
}

func (s *TaskService) emitRecurrenceScheduled(src, successor *domain.Task) {
	if s.eventBus == nil {
		return
	}
	event := events.TaskRecurrenceScheduledEvent{
		SourceTaskID:    src.ID,
		SuccessorTaskID: successor.ID,
		UserID:          src.UserID,
	}
	if successor.DueDate != nil {
		event.NextDueDate = *successor.DueDate
	}
	if err := events.TaskRecurrenceScheduledV1.Publish(s.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskRecurrenceScheduled event for task %s: %v", src.ID, err)
	}
}
