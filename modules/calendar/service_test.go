package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/pintask/domain/calendar"
	"github.com/example/pintask/modules/task"
)

// fakeTaskPort serves canned dated tasks to the aggregator.
type fakeTaskPort struct {
	dueTasks []task.TaskResponse
	err      error
}

func (f *fakeTaskPort) ListDueTasks(_ context.Context, _ string) ([]task.TaskResponse, error) {
	return f.dueTasks, f.err
}

func (f *fakeTaskPort) CreateTask(context.Context, *task.CreateTaskRequest) (*task.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) GetTask(context.Context, task.Caller, string) (*task.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) ListTasks(context.Context, task.Caller, string) (*task.ListTasksResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) ListPendingTasks(context.Context, string, time.Time) ([]task.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) UpdateTask(context.Context, *task.UpdateTaskRequest) (*task.UpdateTaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) DeleteTask(context.Context, task.Caller, string) error {
	return errors.New("not implemented")
}

func setupCalendarService(t *testing.T, taskPort task.TaskPort, migrate bool) *CalendarService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if migrate {
		if err := db.AutoMigrate(&domain.Source{}); err != nil {
			t.Fatalf("failed to migrate test database: %v", err)
		}
	}
	return NewCalendarService(NewSourceRepository(db), NewFeedFetcher(5*time.Second), taskPort)
}

func icsBody(uid string) string {
	return strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"SUMMARY:event " + uid,
		"DTSTART:20240615T130000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n") + "\r\n"
}

func TestAddSourceValidation(t *testing.T) {
	svc := setupCalendarService(t, &fakeTaskPort{}, true)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     AddSourceRequest
		wantErr string
	}{
		{"missing name", AddSourceRequest{UserID: "u1", URL: "https://x.test/cal.ics"}, "name is required"},
		{"missing url", AddSourceRequest{UserID: "u1", Name: "Cal"}, "url is required"},
		{"bad scheme", AddSourceRequest{UserID: "u1", Name: "Cal", URL: "ftp://x.test/cal.ics"}, "unsupported url scheme"},
		{"no host", AddSourceRequest{UserID: "u1", Name: "Cal", URL: "https:///cal.ics"}, "invalid url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddSource(ctx, &tt.req)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("AddSource() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestAddSourceDefaults(t *testing.T) {
	svc := setupCalendarService(t, &fakeTaskPort{}, true)

	src, err := svc.AddSource(context.Background(), &AddSourceRequest{
		UserID: "user-1",
		Name:   "Team calendar",
		URL:    "webcal://example.com/team.ics",
	})
	if err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if src.Type != "ical" {
		t.Errorf("Type = %q, want the ical default", src.Type)
	}
	if src.Color != defaultSourceColor {
		t.Errorf("Color = %q, want %q", src.Color, defaultSourceColor)
	}
	if src.ID == "" {
		t.Error("source has no ID")
	}
}

func TestDeleteSourceOwnership(t *testing.T) {
	svc := setupCalendarService(t, &fakeTaskPort{}, true)
	ctx := context.Background()

	src, err := svc.AddSource(ctx, &AddSourceRequest{
		UserID: "user-1",
		Name:   "Private",
		URL:    "https://example.com/cal.ics",
	})
	if err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}

	if err := svc.DeleteSource(ctx, "user-2", src.ID); !errors.Is(err, domain.ErrSourceNotFound) {
		t.Errorf("DeleteSource() by another user error = %v, want ErrSourceNotFound", err)
	}
	if err := svc.DeleteSource(ctx, "user-1", src.ID); err != nil {
		t.Errorf("DeleteSource() by owner error = %v", err)
	}
	if err := svc.DeleteSource(ctx, "user-1", src.ID); !errors.Is(err, domain.ErrSourceNotFound) {
		t.Errorf("DeleteSource() on deleted source error = %v, want ErrSourceNotFound", err)
	}
}

func TestListEventsAggregatesTasksAndFeeds(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(icsBody("feed-ev")))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	due := time.Date(2024, time.June, 20, 14, 0, 0, 0, time.UTC)
	taskPort := &fakeTaskPort{dueTasks: []task.TaskResponse{
		{ID: "t1", Title: "Pay rent", Priority: "high", Status: "pending", DueDate: &due},
	}}
	svc := setupCalendarService(t, taskPort, true)
	ctx := context.Background()

	goodSrc, err := svc.AddSource(ctx, &AddSourceRequest{UserID: "user-1", Name: "Good", URL: good.URL})
	if err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	badSrc, err := svc.AddSource(ctx, &AddSourceRequest{UserID: "user-1", Name: "Bad", URL: bad.URL})
	if err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}

	resp, err := svc.ListEvents(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if resp.SetupRequired {
		t.Error("SetupRequired set with a migrated sources table")
	}
	if len(resp.Events) != 2 {
		t.Fatalf("got %d events, want task event plus good feed event", len(resp.Events))
	}

	taskEv := resp.Events[0]
	if taskEv.ID != "task-t1" || taskEv.Resource.Type != ResourceTask {
		t.Errorf("first event = %+v, want the task event", taskEv)
	}
	if !taskEv.End.Equal(taskEv.Start.Add(time.Hour)) {
		t.Errorf("task event window = %v..%v, want one hour", taskEv.Start, taskEv.End)
	}
	if taskEv.Resource.Priority != "high" || taskEv.Resource.Status != "pending" {
		t.Errorf("task event resource = %+v, want priority and status carried", taskEv.Resource)
	}

	feedEv := resp.Events[1]
	if feedEv.ID != goodSrc.ID+"-feed-ev" || feedEv.Resource.SourceID != goodSrc.ID {
		t.Errorf("second event = %+v, want the good feed's event", feedEv)
	}

	if len(resp.FeedErrors) != 1 || resp.FeedErrors[0].SourceID != badSrc.ID {
		t.Fatalf("FeedErrors = %+v, want one entry for the failing feed", resp.FeedErrors)
	}
	if !strings.Contains(resp.FeedErrors[0].Error, "feed returned") {
		t.Errorf("FeedErrors[0].Error = %q, want the fetch status error", resp.FeedErrors[0].Error)
	}
}

func TestListEventsPreservesSourceOrder(t *testing.T) {
	var servers []*httptest.Server
	for i := 0; i < 3; i++ {
		uid := fmt.Sprintf("ev-%d", i)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(icsBody(uid)))
		}))
		defer srv.Close()
		servers = append(servers, srv)
	}

	svc := setupCalendarService(t, &fakeTaskPort{}, true)
	ctx := context.Background()

	var srcIDs []string
	for i, srv := range servers {
		src, err := svc.AddSource(ctx, &AddSourceRequest{
			UserID: "user-1",
			Name:   fmt.Sprintf("Feed %d", i),
			URL:    srv.URL,
		})
		if err != nil {
			t.Fatalf("AddSource() error = %v", err)
		}
		srcIDs = append(srcIDs, src.ID)
	}

	resp, err := svc.ListEvents(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(resp.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(resp.Events))
	}
	for i, ev := range resp.Events {
		want := fmt.Sprintf("%s-ev-%d", srcIDs[i], i)
		if ev.ID != want {
			t.Errorf("event %d ID = %q, want %q", i, ev.ID, want)
		}
	}
}

func TestListEventsWithoutSourcesTable(t *testing.T) {
	due := time.Date(2024, time.June, 20, 14, 0, 0, 0, time.UTC)
	taskPort := &fakeTaskPort{dueTasks: []task.TaskResponse{
		{ID: "t1", Title: "Pay rent", Priority: "medium", Status: "pending", DueDate: &due},
	}}
	svc := setupCalendarService(t, taskPort, false)

	resp, err := svc.ListEvents(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if !resp.SetupRequired {
		t.Error("SetupRequired not set when the sources table is missing")
	}
	if len(resp.Events) != 1 || resp.Events[0].ID != "task-t1" {
		t.Errorf("Events = %+v, want the task-derived event alone", resp.Events)
	}
}

func TestListSourcesWithoutTableReportsUnavailable(t *testing.T) {
	svc := setupCalendarService(t, &fakeTaskPort{}, false)

	if _, err := svc.ListSources(context.Background(), "user-1"); !errors.Is(err, domain.ErrSourcesUnavailable) {
		t.Errorf("ListSources() error = %v, want ErrSourcesUnavailable", err)
	}
}
