package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/pintask/domain/task"
)

func setupTestService(t *testing.T) *TaskService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewTaskService(NewTaskRepository(db))
}

func strPtr(s string) *string { return &s }

func TestCreateTask(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateTaskRequest{
		Caller: Caller{UserID: "user-1"},
		Title:  "Buy groceries",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("created task has no ID")
	}
	if created.Status != domain.StatusPending {
		t.Errorf("Status = %q, want pending", created.Status)
	}
	if created.Priority != domain.PriorityMedium {
		t.Errorf("Priority = %q, want the medium default", created.Priority)
	}
	if created.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", created.UserID)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateTaskRequest{
		Caller: Caller{UserID: "user-1"},
	}); err == nil || !strings.Contains(err.Error(), "title is required") {
		t.Errorf("Create() without title error = %v, want title is required", err)
	}

	if _, err := svc.Create(ctx, &CreateTaskRequest{
		Caller:   Caller{UserID: "user-1"},
		Title:    "Something",
		Priority: "impossible",
	}); err == nil || !strings.Contains(err.Error(), "invalid priority") {
		t.Errorf("Create() with bad priority error = %v, want invalid priority", err)
	}
}

func TestCreateTaskAdminAssignment(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	assigned, err := svc.Create(ctx, &CreateTaskRequest{
		Caller:     Caller{UserID: "admin-1", IsAdmin: true},
		Title:      "Review the quarterly report",
		AssigneeID: "user-2",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if assigned.UserID != "user-2" {
		t.Errorf("admin assignment UserID = %q, want user-2", assigned.UserID)
	}

	// Non-admins cannot assign to others.
	own, err := svc.Create(ctx, &CreateTaskRequest{
		Caller:     Caller{UserID: "user-1"},
		Title:      "Sneaky assignment",
		AssigneeID: "user-2",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if own.UserID != "user-1" {
		t.Errorf("non-admin assignment UserID = %q, want user-1", own.UserID)
	}
}

func TestGetTaskOwnership(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateTaskRequest{
		Caller: Caller{UserID: "user-1"},
		Title:  "Private task",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Get(ctx, Caller{UserID: "user-2"}, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Get() by another user error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(ctx, Caller{UserID: "admin-1", IsAdmin: true}, created.ID); err != nil {
		t.Errorf("Get() by admin error = %v, want nil", err)
	}
	if _, err := svc.Get(ctx, Caller{UserID: "user-1"}, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() missing task error = %v, want ErrNotFound", err)
	}
}

func TestListTasksScoping(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	for _, owner := range []string{"user-1", "user-1", "user-2"} {
		if _, err := svc.Create(ctx, &CreateTaskRequest{
			Caller: Caller{UserID: owner},
			Title:  "task for " + owner,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	own, err := svc.List(ctx, Caller{UserID: "user-1"}, "user-2")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(own) != 2 {
		t.Errorf("non-admin List() returned %d tasks, want own 2", len(own))
	}

	other, err := svc.List(ctx, Caller{UserID: "admin-1", IsAdmin: true}, "user-2")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(other) != 1 {
		t.Errorf("admin List(user-2) returned %d tasks, want 1", len(other))
	}
}

func TestCompleteRecurringTaskCreatesSuccessor(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	due := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, &CreateTaskRequest{
		Caller:            Caller{UserID: "user-1"},
		Title:             "Weekly review",
		DueDate:           &due,
		IsRecurring:       true,
		RecurrencePattern: `{"type":"weekly","interval":1}`,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, successorErr, err := svc.Update(ctx, &UpdateTaskRequest{
		Caller: Caller{UserID: "user-1"},
		TaskID: created.ID,
		Status: strPtr(string(domain.StatusCompleted)),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if successorErr != "" {
		t.Fatalf("Update() successorErr = %q, want empty", successorErr)
	}
	if updated.Status != domain.StatusCompleted {
		t.Errorf("Status = %q, want completed", updated.Status)
	}

	all, err := svc.List(ctx, Caller{UserID: "user-1"}, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected completed task plus one successor, got %d tasks", len(all))
	}

	var successor *domain.Task
	for i := range all {
		if all[i].ID != created.ID {
			successor = &all[i]
		}
	}
	if successor == nil {
		t.Fatal("no successor task found")
	}
	if successor.Status != domain.StatusPending {
		t.Errorf("successor Status = %q, want pending", successor.Status)
	}
	if successor.Title != created.Title {
		t.Errorf("successor Title = %q, want %q", successor.Title, created.Title)
	}
	want := due.AddDate(0, 0, 7)
	if successor.DueDate == nil || !successor.DueDate.Equal(want) {
		t.Errorf("successor DueDate = %v, want %v", successor.DueDate, want)
	}
	if !successor.IsRecurring {
		t.Error("successor lost its recurrence flag")
	}
}

func TestCompleteTwiceSpawnsOneSuccessor(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateTaskRequest{
		Caller:            Caller{UserID: "user-1"},
		Title:             "Daily standup notes",
		IsRecurring:       true,
		RecurrencePattern: `{"type":"daily","interval":1}`,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, _, err := svc.Update(ctx, &UpdateTaskRequest{
			Caller: Caller{UserID: "user-1"},
			TaskID: created.ID,
			Status: strPtr(string(domain.StatusCompleted)),
		}); err != nil {
			t.Fatalf("Update() attempt %d error = %v", i+1, err)
		}
	}

	all, err := svc.List(ctx, Caller{UserID: "user-1"}, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected exactly one successor after repeat completion, got %d tasks", len(all))
	}
}

func TestCompleteNonRecurringSpawnsNothing(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateTaskRequest{
		Caller: Caller{UserID: "user-1"},
		Title:  "One-off errand",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, _, err := svc.Update(ctx, &UpdateTaskRequest{
		Caller: Caller{UserID: "user-1"},
		TaskID: created.ID,
		Status: strPtr(string(domain.StatusCompleted)),
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	all, err := svc.List(ctx, Caller{UserID: "user-1"}, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("non-recurring completion spawned tasks: got %d, want 1", len(all))
	}
}

func TestUpdateTaskFieldsAndOwnership(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateTaskRequest{
		Caller: Caller{UserID: "user-1"},
		Title:  "Draft",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, _, err := svc.Update(ctx, &UpdateTaskRequest{
		Caller:   Caller{UserID: "user-1"},
		TaskID:   created.ID,
		Title:    strPtr("Final"),
		Priority: strPtr(string(domain.PriorityUrgent)),
		Status:   strPtr(string(domain.StatusInProgress)),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Final" || updated.Priority != domain.PriorityUrgent || updated.Status != domain.StatusInProgress {
		t.Errorf("Update() = %+v, want the edited fields applied", updated)
	}

	if _, _, err := svc.Update(ctx, &UpdateTaskRequest{
		Caller: Caller{UserID: "user-2"},
		TaskID: created.ID,
		Title:  strPtr("Hijacked"),
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Update() by another user error = %v, want ErrForbidden", err)
	}

	if _, _, err := svc.Update(ctx, &UpdateTaskRequest{
		Caller: Caller{UserID: "user-1"},
		TaskID: created.ID,
		Status: strPtr("done-ish"),
	}); err == nil || !strings.Contains(err.Error(), "invalid status") {
		t.Errorf("Update() with bad status error = %v, want invalid status", err)
	}
}

func TestDeleteTaskOwnership(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateTaskRequest{
		Caller: Caller{UserID: "user-1"},
		Title:  "Disposable",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, Caller{UserID: "user-2"}, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Delete() by another user error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, Caller{UserID: "user-1"}, created.ID); err != nil {
		t.Errorf("Delete() by owner error = %v", err)
	}
	if _, err := svc.Get(ctx, Caller{UserID: "user-1"}, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
