package agent

import (
	"context"
	"fmt"
	"net/url"
	"time"

	domain "github.com/example/pintask/domain/agent"
	"github.com/google/uuid"
)

// AgentService manages the launcher links shown in the client sidebar.
type AgentService struct {
	repo *AgentRepository
}

// NewAgentService creates a new AgentService.
func NewAgentService(repo *AgentRepository) *AgentService {
	return &AgentService{repo: repo}
}

// Create registers a new agent link, active by default.
func (s *AgentService) Create(_ context.Context, req *CreateAgentRequest) (*domain.Agent, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := validateAgentURL(req.URL); err != nil {
		return nil, err
	}

	now := time.Now()
	a := &domain.Agent{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Description:     req.Description,
		URL:             req.URL,
		OpenInNewWindow: req.OpenInNewWindow,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(a); err != nil {
		return nil, fmt.Errorf("failed to save agent: %w", err)
	}
	return a, nil
}

// Get returns an agent by ID.
func (s *AgentService) Get(_ context.Context, agentID string) (*domain.Agent, error) {
	return s.repo.FindByID(agentID)
}

// List returns agents, optionally active only.
func (s *AgentService) List(_ context.Context, activeOnly bool) ([]domain.Agent, error) {
	return s.repo.FindAll(activeOnly)
}

// Update applies the non-nil fields of the request.
func (s *AgentService) Update(_ context.Context, req *UpdateAgentRequest) (*domain.Agent, error) {
	a, err := s.repo.FindByID(req.AgentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("name is required")
		}
		a.Name = *req.Name
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.URL != nil {
		if err := validateAgentURL(*req.URL); err != nil {
			return nil, err
		}
		a.URL = *req.URL
	}
	if req.OpenInNewWindow != nil {
		a.OpenInNewWindow = *req.OpenInNewWindow
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	a.UpdatedAt = time.Now()

	if err := s.repo.Save(a); err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}
	return a, nil
}

// Delete removes an agent.
func (s *AgentService) Delete(_ context.Context, agentID string) error {
	return s.repo.Delete(agentID)
}

func validateAgentURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url: missing host")
	}
	return nil
}
