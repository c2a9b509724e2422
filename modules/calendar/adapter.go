package calendar

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// calendarAdapter wraps ServiceContainer for type-safe cross-module
// communication.
type calendarAdapter struct {
	container mono.ServiceContainer
}

// NewCalendarAdapter creates a new adapter for calendar services.
func NewCalendarAdapter(container mono.ServiceContainer) CalendarPort {
	if container == nil {
		panic("calendar adapter requires non-nil ServiceContainer")
	}
	return &calendarAdapter{container: container}
}

// AddSource registers a feed via the add-source service.
func (a *calendarAdapter) AddSource(ctx context.Context, req *AddSourceRequest) (*SourceResponse, error) {
	var resp SourceResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "add-source", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("add-source service call failed: %w", err)
	}
	return &resp, nil
}

// ListSources lists a user's feeds via the list-sources service.
func (a *calendarAdapter) ListSources(ctx context.Context, userID string) (*ListSourcesResponse, error) {
	req := ListSourcesRequest{UserID: userID}
	var resp ListSourcesResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-sources", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-sources service call failed: %w", err)
	}
	return &resp, nil
}

// DeleteSource removes a feed via the delete-source service.
func (a *calendarAdapter) DeleteSource(ctx context.Context, userID, sourceID string) error {
	req := DeleteSourceRequest{UserID: userID, SourceID: sourceID}
	var resp DeleteSourceResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete-source", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("delete-source service call failed: %w", err)
	}
	if !resp.Deleted {
		return fmt.Errorf("source not deleted: %s", sourceID)
	}
	return nil
}

// ListEvents builds the aggregated view via the list-events service.
func (a *calendarAdapter) ListEvents(ctx context.Context, userID string) (*ListEventsResponse, error) {
	req := ListEventsRequest{UserID: userID}
	var resp ListEventsResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-events", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-events service call failed: %w", err)
	}
	return &resp, nil
}
