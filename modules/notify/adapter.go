package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// notifyAdapter wraps ServiceContainer for type-safe cross-module
// communication.
type notifyAdapter struct {
	container mono.ServiceContainer
}

// NewNotifyAdapter creates a new adapter for notification services.
func NewNotifyAdapter(container mono.ServiceContainer) NotifyPort {
	if container == nil {
		panic("notify adapter requires non-nil ServiceContainer")
	}
	return &notifyAdapter{container: container}
}

// RunDigest triggers a digest run via the run-digest service.
func (a *notifyAdapter) RunDigest(ctx context.Context) (*RunDigestResponse, error) {
	req := RunDigestRequest{}
	var resp RunDigestResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "run-digest", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("run-digest service call failed: %w", err)
	}
	return &resp, nil
}

// ListLogs reads recent notification logs via the list-notifications
// service.
func (a *notifyAdapter) ListLogs(ctx context.Context, limit int) (*ListLogsResponse, error) {
	req := ListLogsRequest{Limit: limit}
	var resp ListLogsResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-notifications", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-notifications service call failed: %w", err)
	}
	return &resp, nil
}
