package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// agentAdapter wraps ServiceContainer for type-safe cross-module
// communication.
type agentAdapter struct {
	container mono.ServiceContainer
}

// NewAgentAdapter creates a new adapter for agent services.
func NewAgentAdapter(container mono.ServiceContainer) AgentPort {
	if container == nil {
		panic("agent adapter requires non-nil ServiceContainer")
	}
	return &agentAdapter{container: container}
}

// CreateAgent registers an agent via the create-agent service.
func (a *agentAdapter) CreateAgent(ctx context.Context, req *CreateAgentRequest) (*AgentResponse, error) {
	var resp AgentResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create-agent", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create-agent service call failed: %w", err)
	}
	return &resp, nil
}

// GetAgent fetches an agent via the get-agent service.
func (a *agentAdapter) GetAgent(ctx context.Context, agentID string) (*AgentResponse, error) {
	req := GetAgentRequest{AgentID: agentID}
	var resp AgentResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-agent", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get-agent service call failed: %w", err)
	}
	return &resp, nil
}

// ListAgents lists agents via the list-agents service.
func (a *agentAdapter) ListAgents(ctx context.Context, activeOnly bool) (*ListAgentsResponse, error) {
	req := ListAgentsRequest{ActiveOnly: activeOnly}
	var resp ListAgentsResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-agents", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-agents service call failed: %w", err)
	}
	return &resp, nil
}

// UpdateAgent mutates an agent via the update-agent service.
func (a *agentAdapter) UpdateAgent(ctx context.Context, req *UpdateAgentRequest) (*AgentResponse, error) {
	var resp AgentResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update-agent", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("update-agent service call failed: %w", err)
	}
	return &resp, nil
}

// DeleteAgent removes an agent via the delete-agent service.
func (a *agentAdapter) DeleteAgent(ctx context.Context, agentID string) error {
	req := DeleteAgentRequest{AgentID: agentID}
	var resp DeleteAgentResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete-agent", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("delete-agent service call failed: %w", err)
	}
	if !resp.Deleted {
		return fmt.Errorf("agent not deleted: %s", agentID)
	}
	return nil
}
