package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/pintask/domain/notification"
	"github.com/example/pintask/events"
	"github.com/example/pintask/modules/auth"
	"github.com/example/pintask/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/robfig/cron/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultDigestCron runs the digest every morning at 08:00.
const DefaultDigestCron = "0 8 * * *"

// NotifyModule runs the scheduled task digest and keeps the notification
// log. It also listens to task lifecycle events for activity logging.
type NotifyModule struct {
	db       *gorm.DB
	service  *DigestService
	cron     *cron.Cron
	authPort auth.AuthPort
	taskPort task.TaskPort
	eventBus mono.EventBus
	dbPath   string
	schedule string
}

// Compile-time interface checks.
var _ mono.Module = (*NotifyModule)(nil)
var _ mono.ServiceProviderModule = (*NotifyModule)(nil)
var _ mono.DependentModule = (*NotifyModule)(nil)
var _ mono.EventEmitterModule = (*NotifyModule)(nil)
var _ mono.EventConsumerModule = (*NotifyModule)(nil)
var _ mono.HealthCheckableModule = (*NotifyModule)(nil)

// NewModule creates a new NotifyModule.
func NewModule() *NotifyModule {
	dbPath := os.Getenv("PINTASK_DB_PATH")
	if dbPath == "" {
		dbPath = "pintask.db"
	}
	schedule := os.Getenv("PINTASK_DIGEST_CRON")
	if schedule == "" {
		schedule = DefaultDigestCron
	}
	return &NotifyModule{dbPath: dbPath, schedule: schedule}
}

// Name returns the module name.
func (m *NotifyModule) Name() string {
	return "notify"
}

// Dependencies declares the modules this module depends on.
func (m *NotifyModule) Dependencies() []string {
	return []string{"auth", "task"}
}

// SetDependencyServiceContainer receives dependency containers from the
// framework.
func (m *NotifyModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// SetEventBus receives the EventBus from the framework.
func (m *NotifyModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
	if m.service != nil {
		m.service.SetEventBus(bus)
	}
}

// EmitEvents declares the events this module can emit.
func (m *NotifyModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.DigestSentV1.ToBase(),
	}
}

// RegisterEventConsumers subscribes to task lifecycle events.
func (m *NotifyModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskRecurrenceScheduledV1, m.handleRecurrenceScheduled, m); err != nil {
		return fmt.Errorf("failed to register TaskRecurrenceScheduled consumer: %w", err)
	}

	log.Printf("[notify] Registered event consumers: TaskCompleted, TaskRecurrenceScheduled")
	return nil
}

// Start initializes the notify module and its digest schedule.
func (m *NotifyModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("authPort dependency not set")
	}
	if m.taskPort == nil {
		return fmt.Errorf("taskPort dependency not set")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Log{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewDigestService(m.authPort, m.taskPort, NewLogRepository(db), nil)
	if m.eventBus != nil {
		m.service.SetEventBus(m.eventBus)
	}

	m.cron = cron.New()
	if _, err := m.cron.AddFunc(m.schedule, m.runScheduledDigest); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", m.schedule, err)
	}
	m.cron.Start()

	log.Printf("[notify] Module started (schedule: %s, database: %s)", m.schedule, m.dbPath)
	return nil
}

// Stop shuts down the module, waiting for a running digest to finish.
func (m *NotifyModule) Stop(ctx context.Context) error {
	if m.cron != nil {
		stopCtx := m.cron.Stop()
		select {
		case <-stopCtx.Done():
		case <-ctx.Done():
		}
	}
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[notify] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *NotifyModule) Health(_ context.Context) mono.HealthStatus {
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
		Details: map[string]any{"schedule": m.schedule},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *NotifyModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"run-digest": func() error {
			return helper.RegisterTypedRequestReplyService(container, "run-digest", json.Unmarshal, json.Marshal, m.handleRunDigest)
		},
		"list-notifications": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-notifications", json.Unmarshal, json.Marshal, m.handleListLogs)
		},
	}
	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[notify] Registered services: run-digest, list-notifications")
	return nil
}

func (m *NotifyModule) runScheduledDigest() {
	resp, err := m.service.Run(context.Background(), 0)
	if err != nil {
		log.Printf("[notify] scheduled digest failed: %v", err)
		return
	}
	log.Printf("[notify] scheduled digest: %d users, %d sent, %d failures",
		resp.UsersProcessed, resp.DigestsSent, resp.Failures)
}

func (m *NotifyModule) handleRunDigest(ctx context.Context, req RunDigestRequest, _ *mono.Msg) (RunDigestResponse, error) {
	resp, err := m.service.Run(ctx, req.DueWithin)
	if err != nil {
		return RunDigestResponse{}, err
	}
	return *resp, nil
}

func (m *NotifyModule) handleListLogs(ctx context.Context, req ListLogsRequest, _ *mono.Msg) (ListLogsResponse, error) {
	logs, err := m.service.ListLogs(ctx, req.Limit)
	if err != nil {
		return ListLogsResponse{}, err
	}
	resp := ListLogsResponse{Logs: make([]LogResponse, 0, len(logs)), Total: len(logs)}
	for i := range logs {
		resp.Logs = append(resp.Logs, toLogResponse(&logs[i]))
	}
	return resp, nil
}

func (m *NotifyModule) handleTaskCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	log.Printf("[notify] Task completed: %s (%s) by user %s", event.TaskID, event.Title, event.UserID)
	return nil
}

func (m *NotifyModule) handleRecurrenceScheduled(_ context.Context, event events.TaskRecurrenceScheduledEvent, _ *mono.Msg) error {
	log.Printf("[notify] Recurrence scheduled: %s -> %s (next due %s)",
		event.SourceTaskID, event.SuccessorTaskID, event.NextDueDate.Format("2006-01-02"))
	return nil
}

func toLogResponse(l *domain.Log) LogResponse {
	return LogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Recipient: l.Recipient,
		Channel:   string(l.Channel),
		Status:    string(l.Status),
		Subject:   l.Subject,
		Message:   l.Message,
		TaskCount: l.TaskCount,
		SentAt:    l.SentAt,
		CreatedAt: l.CreatedAt,
	}
}
