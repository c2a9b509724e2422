package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	domain "github.com/example/pintask/domain/calendar"
	"github.com/example/pintask/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CalendarModule provides feed source management and the aggregated
// calendar view.
type CalendarModule struct {
	db       *gorm.DB
	service  *CalendarService
	taskPort task.TaskPort
	dbPath   string
}

// Compile-time interface checks.
var _ mono.Module = (*CalendarModule)(nil)
var _ mono.ServiceProviderModule = (*CalendarModule)(nil)
var _ mono.DependentModule = (*CalendarModule)(nil)
var _ mono.HealthCheckableModule = (*CalendarModule)(nil)

// NewModule creates a new CalendarModule.
func NewModule() *CalendarModule {
	dbPath := os.Getenv("PINTASK_DB_PATH")
	if dbPath == "" {
		dbPath = "pintask.db"
	}
	return &CalendarModule{dbPath: dbPath}
}

// Name returns the module name.
func (m *CalendarModule) Name() string {
	return "calendar"
}

// Dependencies declares the modules this module depends on.
func (m *CalendarModule) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives dependency containers from the
// framework.
func (m *CalendarModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// Start initializes the calendar module.
func (m *CalendarModule) Start(_ context.Context) error {
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

	// A failed migration is survivable: the aggregate view degrades to
	// task-derived events until the table exists.
	if err := db.AutoMigrate(&domain.Source{}); err != nil {
		log.Printf("[calendar] Warning: sources table migration failed: %v", err)
	}

	m.service = NewCalendarService(
		NewSourceRepository(db),
		NewFeedFetcher(loadFeedTimeout()),
		m.taskPort,
	)

	log.Printf("[calendar] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *CalendarModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[calendar] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *CalendarModule) Health(_ context.Context) mono.HealthStatus {
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
func (m *CalendarModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"add-source": func() error {
			return helper.RegisterTypedRequestReplyService(container, "add-source", json.Unmarshal, json.Marshal, m.handleAddSource)
		},
		"list-sources": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-sources", json.Unmarshal, json.Marshal, m.handleListSources)
		},
		"delete-source": func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-source", json.Unmarshal, json.Marshal, m.handleDeleteSource)
		},
		"list-events": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-events", json.Unmarshal, json.Marshal, m.handleListEvents)
		},
	}
	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[calendar] Registered services: add-source, list-sources, delete-source, list-events")
	return nil
}

func (m *CalendarModule) handleAddSource(ctx context.Context, req AddSourceRequest, _ *mono.Msg) (SourceResponse, error) {
	src, err := m.service.AddSource(ctx, &req)
	if err != nil {
		return SourceResponse{}, err
	}
	return toSourceResponse(src), nil
}

func (m *CalendarModule) handleListSources(ctx context.Context, req ListSourcesRequest, _ *mono.Msg) (ListSourcesResponse, error) {
	sources, err := m.service.ListSources(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrSourcesUnavailable) {
			// Setup-required is a response, not an error.
			return ListSourcesResponse{Sources: []SourceResponse{}, SetupRequired: true}, nil
		}
		return ListSourcesResponse{}, err
	}
	resp := ListSourcesResponse{Sources: make([]SourceResponse, 0, len(sources)), Total: len(sources)}
	for i := range sources {
		resp.Sources = append(resp.Sources, toSourceResponse(&sources[i]))
	}
	return resp, nil
}

func (m *CalendarModule) handleDeleteSource(ctx context.Context, req DeleteSourceRequest, _ *mono.Msg) (DeleteSourceResponse, error) {
	if err := m.service.DeleteSource(ctx, req.UserID, req.SourceID); err != nil {
		return DeleteSourceResponse{Deleted: false}, err
	}
	return DeleteSourceResponse{Deleted: true}, nil
}

func (m *CalendarModule) handleListEvents(ctx context.Context, req ListEventsRequest, _ *mono.Msg) (ListEventsResponse, error) {
	resp, err := m.service.ListEvents(ctx, req.UserID)
	if err != nil {
		return ListEventsResponse{}, err
	}
	return *resp, nil
}

func toSourceResponse(s *domain.Source) SourceResponse {
	return SourceResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Name:      s.Name,
		URL:       s.URL,
		Type:      s.Type,
		Color:     s.Color,
		CreatedAt: s.CreatedAt,
	}
}

// loadFeedTimeout loads the feed fetch timeout from the environment.
func loadFeedTimeout() time.Duration {
	if v := os.Getenv("PINTASK_FEED_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("[calendar] Warning: invalid PINTASK_FEED_TIMEOUT %q, using default", v)
	}
	return DefaultFeedTimeout
}
