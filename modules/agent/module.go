package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/pintask/domain/agent"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AgentModule provides launcher link management services.
type AgentModule struct {
	db      *gorm.DB
	service *AgentService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*AgentModule)(nil)
var _ mono.ServiceProviderModule = (*AgentModule)(nil)
var _ mono.HealthCheckableModule = (*AgentModule)(nil)

// NewModule creates a new AgentModule.
func NewModule() *AgentModule {
	dbPath := os.Getenv("PINTASK_DB_PATH")
	if dbPath == "" {
		dbPath = "pintask.db"
	}
	return &AgentModule{dbPath: dbPath}
}

// Name returns the module name.
func (m *AgentModule) Name() string {
	return "agent"
}

// Start initializes the agent module.
func (m *AgentModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Agent{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewAgentService(NewAgentRepository(db))

	log.Printf("[agent] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AgentModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[agent] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AgentModule) Health(_ context.Context) mono.HealthStatus {
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
func (m *AgentModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create-agent": func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-agent", json.Unmarshal, json.Marshal, m.handleCreateAgent)
		},
		"get-agent": func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-agent", json.Unmarshal, json.Marshal, m.handleGetAgent)
		},
		"list-agents": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-agents", json.Unmarshal, json.Marshal, m.handleListAgents)
		},
		"update-agent": func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-agent", json.Unmarshal, json.Marshal, m.handleUpdateAgent)
		},
		"delete-agent": func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-agent", json.Unmarshal, json.Marshal, m.handleDeleteAgent)
		},
	}
	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[agent] Registered services: create-agent, get-agent, list-agents, update-agent, delete-agent")
	return nil
}

func (m *AgentModule) handleCreateAgent(ctx context.Context, req CreateAgentRequest, _ *mono.Msg) (AgentResponse, error) {
	a, err := m.service.Create(ctx, &req)
	if err != nil {
		return AgentResponse{}, err
	}
	return toAgentResponse(a), nil
}

func (m *AgentModule) handleGetAgent(ctx context.Context, req GetAgentRequest, _ *mono.Msg) (AgentResponse, error) {
	a, err := m.service.Get(ctx, req.AgentID)
	if err != nil {
		return AgentResponse{}, err
	}
	return toAgentResponse(a), nil
}

func (m *AgentModule) handleListAgents(ctx context.Context, req ListAgentsRequest, _ *mono.Msg) (ListAgentsResponse, error) {
	agents, err := m.service.List(ctx, req.ActiveOnly)
	if err != nil {
		return ListAgentsResponse{}, err
	}
	resp := ListAgentsResponse{Agents: make([]AgentResponse, 0, len(agents)), Total: len(agents)}
	for i := range agents {
		resp.Agents = append(resp.Agents, toAgentResponse(&agents[i]))
	}
	return resp, nil
}

func (m *AgentModule) handleUpdateAgent(ctx context.Context, req UpdateAgentRequest, _ *mono.Msg) (AgentResponse, error) {
	a, err := m.service.Update(ctx, &req)
	if err != nil {
		return AgentResponse{}, err
	}
	return toAgentResponse(a), nil
}

func (m *AgentModule) handleDeleteAgent(ctx context.Context, req DeleteAgentRequest, _ *mono.Msg) (DeleteAgentResponse, error) {
	if err := m.service.Delete(ctx, req.AgentID); err != nil {
		return DeleteAgentResponse{Deleted: false}, err
	}
	return DeleteAgentResponse{Deleted: true}, nil
}

func toAgentResponse(a *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:              a.ID,
		Name:            a.Name,
		Description:     a.Description,
		URL:             a.URL,
		OpenInNewWindow: a.OpenInNewWindow,
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
