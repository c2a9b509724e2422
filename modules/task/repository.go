package task

import (
	"errors"
	"time"

	domain "github.com/example/pintask/domain/task"
	"gorm.io/gorm"
)

// TaskRepository handles task persistence using GORM.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task.
func (r *TaskRepository) Create(t *domain.Task) error {
	return r.db.Create(t).Error
}

// FindByID finds a task by ID.
func (r *TaskRepository) FindByID(id string) (*domain.Task, error) {
	var t domain.Task
	result := r.db.First(&t, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, result.Error
	}
	return &t, nil
}

// FindByUserID returns all tasks for a user, newest first.
func (r *TaskRepository) FindByUserID(userID string) ([]domain.Task, error) {
	var tasks []domain.Task
	result := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// FindDueByUserID returns the user's tasks that carry a due date, ordered by
// due date. These are the tasks the calendar aggregator surfaces.
func (r *TaskRepository) FindDueByUserID(userID string) ([]domain.Task, error) {
	var tasks []domain.Task
	result := r.db.Where("user_id = ? AND due_date IS NOT NULL", userID).
		Order("due_date asc").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// FindPendingBefore returns the user's undone tasks due at or before the
// cutoff, for digest composition. Completed and cancelled tasks are excluded.
func (r *TaskRepository) FindPendingBefore(userID string, cutoff time.Time) ([]domain.Task, error) {
	var tasks []domain.Task
	result := r.db.
		Where("user_id = ? AND status NOT IN ? AND due_date IS NOT NULL AND due_date <= ?",
			userID, []domain.Status{domain.StatusCompleted, domain.StatusCancelled}, cutoff).
		Order("due_date asc").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Save persists changes to an existing task.
func (r *TaskRepository) Save(t *domain.Task) error {
	return r.db.Save(t).Error
}

// CompleteIfNotCompleted transitions a task into completed only if its stored
// status is not already completed, reporting whether the row transitioned.
// The conditional update is the guard against two concurrent completion
// requests both spawning a recurrence successor.
func (r *TaskRepository) CompleteIfNotCompleted(id string) (bool, error) {
	result := r.db.Model(&domain.Task{}).
		Where("id = ? AND status <> ?", id, domain.StatusCompleted).
		Updates(map[string]any{
			"status":     domain.StatusCompleted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a task by ID.
func (r *TaskRepository) Delete(id string) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
