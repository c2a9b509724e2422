package agent

import (
	"context"
	"time"
)

// CreateAgentRequest is the request for registering an agent link.
type CreateAgentRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	URL             string `json:"url"`
	OpenInNewWindow bool   `json:"open_in_new_window,omitempty"`
}

// GetAgentRequest is the request for fetching an agent.
type GetAgentRequest struct {
	AgentID string `json:"agent_id"`
}

// ListAgentsRequest is the request for listing agents. ActiveOnly limits
// the listing to agents visible to clients.
type ListAgentsRequest struct {
	ActiveOnly bool `json:"active_only,omitempty"`
}

// ListAgentsResponse is the response for listing agents.
type ListAgentsResponse struct {
	Agents []AgentResponse `json:"agents"`
	Total  int             `json:"total"`
}

// UpdateAgentRequest is the request for mutating an agent. Nil fields are
// left untouched.
type UpdateAgentRequest struct {
	AgentID         string  `json:"agent_id"`
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	URL             *string `json:"url,omitempty"`
	OpenInNewWindow *bool   `json:"open_in_new_window,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

// DeleteAgentRequest is the request for removing an agent.
type DeleteAgentRequest struct {
	AgentID string `json:"agent_id"`
}

// DeleteAgentResponse is the response for removing an agent.
type DeleteAgentResponse struct {
	Deleted bool `json:"deleted"`
}

// AgentResponse is the wire form of an agent link.
type AgentResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	URL             string    `json:"url"`
	OpenInNewWindow bool      `json:"open_in_new_window"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AgentPort defines the interface for agent operations consumed by other
// modules.
type AgentPort interface {
	CreateAgent(ctx context.Context, req *CreateAgentRequest) (*AgentResponse, error)
	GetAgent(ctx context.Context, agentID string) (*AgentResponse, error)
	ListAgents(ctx context.Context, activeOnly bool) (*ListAgentsResponse, error)
	UpdateAgent(ctx context.Context, req *UpdateAgentRequest) (*AgentResponse, error)
	DeleteAgent(ctx context.Context, agentID string) error
}
