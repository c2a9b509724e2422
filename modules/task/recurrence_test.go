package task

import (
	"testing"
	"time"

	domain "github.com/example/pintask/domain/task"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestNextDueDate(t *testing.T) {
	from := date(2024, time.January, 15)

	tests := []struct {
		name    string
		pattern domain.RecurrencePattern
		want    time.Time
	}{
		{
			name:    "daily interval 3",
			pattern: domain.RecurrencePattern{Type: "daily", Interval: 3},
			want:    date(2024, time.January, 18),
		},
		{
			name:    "weekly interval 2",
			pattern: domain.RecurrencePattern{Type: "weekly", Interval: 2},
			want:    date(2024, time.January, 29),
		},
		{
			name:    "monthly interval 1",
			pattern: domain.RecurrencePattern{Type: "monthly", Interval: 1},
			want:    date(2024, time.February, 15),
		},
		{
			name:    "unknown type advances one day",
			pattern: domain.RecurrencePattern{Type: "yearly", Interval: 4},
			want:    date(2024, time.January, 16),
		},
		{
			name:    "empty pattern advances one day",
			pattern: domain.RecurrencePattern{Interval: 1},
			want:    date(2024, time.January, 16),
		},
		{
			name:    "zero interval clamped to one",
			pattern: domain.RecurrencePattern{Type: "daily", Interval: 0},
			want:    date(2024, time.January, 16),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDueDate(from, tt.pattern)
			if !got.Equal(tt.want) {
				t.Errorf("NextDueDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDueDateMonthEndRollsOver(t *testing.T) {
	from := date(2024, time.January, 31)
	got := NextDueDate(from, domain.RecurrencePattern{Type: "monthly", Interval: 1})
	// 2024 is a leap year: Jan 31 + 1 month normalizes to Mar 2.
	want := date(2024, time.March, 2)
	if !got.Equal(want) {
		t.Errorf("NextDueDate(Jan 31, monthly) = %v, want %v", got, want)
	}
}

func TestBuildSuccessor(t *testing.T) {
	due := date(2024, time.January, 15)
	src := &domain.Task{
		ID:                "src-1",
		Title:             "Water the plants",
		Description:       "Kitchen and balcony",
		Status:            domain.StatusCompleted,
		Priority:          domain.PriorityHigh,
		DueDate:           &due,
		IsRecurring:       true,
		RecurrencePattern: `{"type":"weekly","interval":1}`,
		AttachmentURL:     "https://files.example.com/plants.jpg",
		AttachmentType:    "image/jpeg",
		UserID:            "user-1",
	}

	now := time.Now()
	succ := buildSuccessor(src, now)

	if succ.ID == src.ID || succ.ID == "" {
		t.Errorf("successor ID = %q, want a fresh id", succ.ID)
	}
	if succ.Status != domain.StatusPending {
		t.Errorf("successor Status = %q, want pending", succ.Status)
	}
	if succ.Title != src.Title || succ.Description != src.Description {
		t.Error("successor did not carry title/description")
	}
	if succ.Priority != src.Priority {
		t.Errorf("successor Priority = %q, want %q", succ.Priority, src.Priority)
	}
	if !succ.IsRecurring || succ.RecurrencePattern != src.RecurrencePattern {
		t.Error("successor did not carry the recurrence fields")
	}
	if succ.AttachmentURL != src.AttachmentURL || succ.AttachmentType != src.AttachmentType {
		t.Error("successor did not carry the attachment fields")
	}
	if succ.UserID != src.UserID {
		t.Errorf("successor UserID = %q, want %q", succ.UserID, src.UserID)
	}
	if succ.DueDate == nil || !succ.DueDate.Equal(date(2024, time.January, 22)) {
		t.Errorf("successor DueDate = %v, want %v", succ.DueDate, date(2024, time.January, 22))
	}
}

func TestBuildSuccessorWithoutDueDate(t *testing.T) {
	src := &domain.Task{
		ID:                "src-1",
		Title:             "Stretch",
		IsRecurring:       true,
		RecurrencePattern: `{"type":"daily","interval":1}`,
		UserID:            "user-1",
	}

	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	succ := buildSuccessor(src, now)

	want := now.AddDate(0, 0, 1)
	if succ.DueDate == nil || !succ.DueDate.Equal(want) {
		t.Errorf("successor DueDate = %v, want %v", succ.DueDate, want)
	}
}
