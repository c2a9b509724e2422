package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/pintask/domain/task"
	"github.com/example/pintask/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides task CRUD and recurrence services.
type TaskModule struct {
	db       *gorm.DB
	service  *TaskService
	eventBus mono.EventBus
	dbPath   string
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule.
func NewModule() *TaskModule {
	dbPath := os.Getenv("PINTASK_DB_PATH")
	if dbPath == "" {
		dbPath = "pintask.db"
	}
	return &TaskModule{dbPath: dbPath}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Start initializes the task module.
func (m *TaskModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewTaskService(NewTaskRepository(db))
	if m.eventBus != nil {
		m.service.SetEventBus(m.eventBus)
	}

	log.Printf("[task] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// SetEventBus receives the EventBus from the framework.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
	if m.service != nil {
		m.service.SetEventBus(bus)
	}
}

// EmitEvents declares the events this module can emit.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskRecurrenceScheduledV1.ToBase(),
	}
}

// Health returns the health status of the module.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("failed to get database connection: %v", err)}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"database": m.dbPath},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-task", json.Unmarshal, json.Marshal, m.handleCreateTask)
		},
		"get-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-task", json.Unmarshal, json.Marshal, m.handleGetTask)
		},
		"list-tasks": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-tasks", json.Unmarshal, json.Marshal, m.handleListTasks)
		},
		"list-due-tasks": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-due-tasks", json.Unmarshal, json.Marshal, m.handleListDueTasks)
		},
		"list-pending-tasks": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-pending-tasks", json.Unmarshal, json.Marshal, m.handleListPendingTasks)
		},
		"update-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-task", json.Unmarshal, json.Marshal, m.handleUpdateTask)
		},
		"delete-task": func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-task", json.Unmarshal, json.Marshal, m.handleDeleteTask)
		},
	}
	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[task] Registered services: create-task, get-task, list-tasks, list-due-tasks, list-pending-tasks, update-task, delete-task")
	return nil
}

func (m *TaskModule) handleCreateTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, &req)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

func (m *TaskModule) handleGetTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(ctx, req.Caller, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

func (m *TaskModule) handleListTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.Caller, req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return toListResponse(tasks), nil
}

func (m *TaskModule) handleListDueTasks(ctx context.Context, req ListDueTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.ListDue(ctx, req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return toListResponse(tasks), nil
}

func (m *TaskModule) handleListPendingTasks(ctx context.Context, req ListPendingTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.ListPendingBefore(ctx, req.UserID, req.DueBefore)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return toListResponse(tasks), nil
}

func (m *TaskModule) handleUpdateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (UpdateTaskResponse, error) {
	t, successorErr, err := m.service.Update(ctx, &req)
	if err != nil {
		return UpdateTaskResponse{}, err
	}
	return UpdateTaskResponse{Task: toTaskResponse(t), SuccessorError: successorErr}, nil
}

func (m *TaskModule) handleDeleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.Caller, req.TaskID); err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:                t.ID,
		Title:             t.Title,
		Description:       t.Description,
		Status:            string(t.Status),
		Priority:          string(t.Priority),
		DueDate:           t.DueDate,
		IsRecurring:       t.IsRecurring,
		RecurrencePattern: t.RecurrencePattern,
		AttachmentURL:     t.AttachmentURL,
		AttachmentType:    t.AttachmentType,
		UserID:            t.UserID,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func toListResponse(tasks []domain.Task) ListTasksResponse {
	resp := ListTasksResponse{Tasks: make([]TaskResponse, 0, len(tasks)), Total: len(tasks)}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	return resp
}
