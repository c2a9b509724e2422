package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	domain "github.com/example/pintask/domain/calendar"
	"github.com/example/pintask/modules/task"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// defaultSourceColor is used when a source is registered without one.
const defaultSourceColor = "#3174ad"

// CalendarService manages feed sources and builds the aggregated calendar
// view from internal tasks and external iCal feeds.
type CalendarService struct {
	repo     *SourceRepository
	fetcher  *FeedFetcher
	taskPort task.TaskPort
}

// NewCalendarService creates a new CalendarService.
func NewCalendarService(repo *SourceRepository, fetcher *FeedFetcher, taskPort task.TaskPort) *CalendarService {
	return &CalendarService{repo: repo, fetcher: fetcher, taskPort: taskPort}
}

// AddSource registers an iCal feed for a user.
func (s *CalendarService) AddSource(_ context.Context, req *AddSourceRequest) (*domain.Source, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := validateFeedURL(req.URL); err != nil {
		return nil, err
	}

	src := &domain.Source{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Name:      req.Name,
		URL:       req.URL,
		Type:      req.Type,
		Color:     req.Color,
		CreatedAt: time.Now(),
	}
	if src.Type == "" {
		src.Type = "ical"
	}
	if src.Color == "" {
		src.Color = defaultSourceColor
	}

	if err := s.repo.Create(src); err != nil {
		return nil, err
	}
	return src, nil
}

// ListSources returns a user's registered feeds. A missing sources table is
// reported through ErrSourcesUnavailable for the caller to surface as a
// setup-required condition.
func (s *CalendarService) ListSources(_ context.Context, userID string) ([]domain.Source, error) {
	return s.repo.FindByUserID(userID)
}

// DeleteSource removes one of the user's feeds. Another user's source is
// indistinguishable from a missing one.
func (s *CalendarService) DeleteSource(_ context.Context, userID, sourceID string) error {
	src, err := s.repo.FindByID(sourceID)
	if err != nil {
		return err
	}
	if src.UserID != userID {
		return domain.ErrSourceNotFound
	}
	return s.repo.Delete(sourceID)
}

// ListEvents builds the aggregated view: the user's dated tasks first, then
// each feed's events in source registration order. Feeds are fetched
// concurrently; a feed that fails to fetch or parse contributes nothing but
// never fails the view. A missing sources table degrades to the task-derived
// events alone with SetupRequired set.
func (s *CalendarService) ListEvents(ctx context.Context, userID string) (*ListEventsResponse, error) {
	tasks, err := s.taskPort.ListDueTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	resp := &ListEventsResponse{Events: make([]DisplayEvent, 0, len(tasks))}
	for i := range tasks {
		resp.Events = append(resp.Events, taskEvent(&tasks[i]))
	}

	sources, err := s.repo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, domain.ErrSourcesUnavailable) {
			resp.SetupRequired = true
			return resp, nil
		}
		return nil, err
	}

	perSource := make([][]DisplayEvent, len(sources))
	feedErrs := make([]error, len(sources))

	g := new(errgroup.Group)
	for i := range sources {
		i := i
		g.Go(func() error {
			events, err := s.fetchSource(ctx, &sources[i])
			if err != nil {
				feedErrs[i] = err
				return nil
			}
			perSource[i] = events
			return nil
		})
	}
	g.Wait()

	for i := range sources {
		if feedErrs[i] != nil {
			log.Printf("[calendar] feed %s (%s) failed: %v", sources[i].ID, sources[i].Name, feedErrs[i])
			resp.FeedErrors = append(resp.FeedErrors, FeedError{
				SourceID: sources[i].ID,
				Error:    feedErrs[i].Error(),
			})
			continue
		}
		resp.Events = append(resp.Events, perSource[i]...)
	}
	return resp, nil
}

func (s *CalendarService) fetchSource(ctx context.Context, src *domain.Source) ([]DisplayEvent, error) {
	body, err := s.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	// Each feed parses against its own registry so one feed's VTIMEZONEs
	// never leak into another's.
	return ParseFeedEvents(src, body, NewZoneRegistry())
}

// taskEvent renders a dated task as a one-hour calendar window starting at
// its due timestamp.
func taskEvent(t *task.TaskResponse) DisplayEvent {
	start := time.Time{}
	if t.DueDate != nil {
		start = *t.DueDate
	}
	return DisplayEvent{
		ID:     "task-" + t.ID,
		Title:  t.Title,
		Start:  start,
		End:    start.Add(time.Hour),
		AllDay: false,
		Resource: EventResource{
			Type:     ResourceTask,
			Priority: t.Priority,
			Status:   t.Status,
		},
	}
}

func validateFeedURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "webcal":
	default:
		return fmt.Errorf("unsupported url scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url: missing host")
	}
	return nil
}
