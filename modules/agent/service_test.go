package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/pintask/domain/agent"
)

func setupTestService(t *testing.T) *AgentService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Agent{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewAgentService(NewAgentRepository(db))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateAgent(t *testing.T) {
	svc := setupTestService(t)

	created, err := svc.Create(context.Background(), &CreateAgentRequest{
		Name:            "Recipe finder",
		Description:     "Suggests dinner ideas",
		URL:             "https://agents.example.com/recipes",
		OpenInNewWindow: true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("created agent has no ID")
	}
	if !created.IsActive {
		t.Error("new agent not active by default")
	}
	if !created.OpenInNewWindow {
		t.Error("OpenInNewWindow not carried")
	}
}

func TestCreateAgentValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateAgentRequest
		wantErr string
	}{
		{"missing name", CreateAgentRequest{URL: "https://x.test"}, "name is required"},
		{"missing url", CreateAgentRequest{Name: "A"}, "url is required"},
		{"bad scheme", CreateAgentRequest{Name: "A", URL: "javascript:alert(1)"}, "unsupported url scheme"},
		{"no host", CreateAgentRequest{Name: "A", URL: "https:///path"}, "invalid url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.req)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Create() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestListAgentsActiveFilter(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	active, err := svc.Create(ctx, &CreateAgentRequest{Name: "Active", URL: "https://x.test/a"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	inactive, err := svc.Create(ctx, &CreateAgentRequest{Name: "Retired", URL: "https://x.test/b"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Update(ctx, &UpdateAgentRequest{AgentID: inactive.ID, IsActive: boolPtr(false)}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	all, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("List(false) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List(false) returned %d agents, want 2", len(all))
	}

	visible, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("List(true) error = %v", err)
	}
	if len(visible) != 1 || visible[0].ID != active.ID {
		t.Errorf("List(true) = %+v, want the active agent alone", visible)
	}
}

func TestUpdateAgent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateAgentRequest{Name: "Draft", URL: "https://x.test/a"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, &UpdateAgentRequest{
		AgentID:     created.ID,
		Name:        strPtr("Renamed"),
		Description: strPtr("New blurb"),
		URL:         strPtr("https://x.test/b"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Renamed" || updated.Description != "New blurb" || updated.URL != "https://x.test/b" {
		t.Errorf("Update() = %+v, want the edited fields applied", updated)
	}

	if _, err := svc.Update(ctx, &UpdateAgentRequest{AgentID: created.ID, Name: strPtr("")}); err == nil {
		t.Error("Update() accepted an empty name")
	}
	if _, err := svc.Update(ctx, &UpdateAgentRequest{AgentID: created.ID, URL: strPtr("ftp://x.test")}); err == nil {
		t.Error("Update() accepted an unsupported url scheme")
	}
	if _, err := svc.Update(ctx, &UpdateAgentRequest{AgentID: "missing", Name: strPtr("X")}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update() on missing agent error = %v, want ErrNotFound", err)
	}
}

func TestDeleteAgent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateAgentRequest{Name: "Disposable", URL: "https://x.test/a"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete() on missing agent error = %v, want ErrNotFound", err)
	}
}
