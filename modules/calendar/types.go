package calendar

import (
	"context"
	"time"
)

// Resource type tags on DisplayEvent.
const (
	ResourceTask     = "task"
	ResourceCalendar = "calendar"
)

// EventResource discriminates where a DisplayEvent came from. Task events
// carry priority and status; calendar events carry the source id and color.
type EventResource struct {
	Type     string `json:"type"`
	Priority string `json:"priority,omitempty"`
	Status   string `json:"status,omitempty"`
	Color    string `json:"color,omitempty"`
	SourceID string `json:"source_id,omitempty"`
}

// DisplayEvent is the unified, non-persisted event shape returned to
// calendar-rendering clients.
type DisplayEvent struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	AllDay   bool          `json:"all_day"`
	Resource EventResource `json:"resource"`
}

// FeedError records a per-source fetch or parse failure. Feed failures
// never fail the aggregate view.
type FeedError struct {
	SourceID string `json:"source_id"`
	Error    string `json:"error"`
}

// AddSourceRequest is the request for registering a feed source.
type AddSourceRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Color  string `json:"color,omitempty"`
}

// SourceResponse is the wire form of a calendar source.
type SourceResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// ListSourcesRequest is the request for listing a user's feed sources.
type ListSourcesRequest struct {
	UserID string `json:"user_id"`
}

// ListSourcesResponse lists a user's feed sources. SetupRequired is true
// when the backing table has not been provisioned yet.
type ListSourcesResponse struct {
	Sources       []SourceResponse `json:"sources"`
	Total         int              `json:"total"`
	SetupRequired bool             `json:"setup_required,omitempty"`
}

// DeleteSourceRequest is the request for removing a feed source.
type DeleteSourceRequest struct {
	UserID   string `json:"user_id"`
	SourceID string `json:"source_id"`
}

// DeleteSourceResponse is the response for removing a feed source.
type DeleteSourceResponse struct {
	Deleted bool `json:"deleted"`
}

// ListEventsRequest is the request for the aggregated calendar view.
type ListEventsRequest struct {
	UserID string `json:"user_id"`
}

// ListEventsResponse is the aggregated calendar view: internal task events
// first, then per-source feed events in source order. SetupRequired is true
// when the sources table is absent, in which case Events holds exactly the
// task-derived events.
type ListEventsResponse struct {
	Events        []DisplayEvent `json:"events"`
	FeedErrors    []FeedError    `json:"feed_errors,omitempty"`
	SetupRequired bool           `json:"setup_required,omitempty"`
}

// CalendarPort defines the interface for calendar operations consumed by
// other modules.
type CalendarPort interface {
	AddSource(ctx context.Context, req *AddSourceRequest) (*SourceResponse, error)
	ListSources(ctx context.Context, userID string) (*ListSourcesResponse, error)
	DeleteSource(ctx context.Context, userID, sourceID string) error
	ListEvents(ctx context.Context, userID string) (*ListEventsResponse, error)
}
