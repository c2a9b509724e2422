package task

import "testing"

func TestParseRecurrencePattern(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantType     string
		wantInterval int
	}{
		{
			name:         "daily with interval",
			raw:          `{"type":"daily","interval":3}`,
			wantType:     "daily",
			wantInterval: 3,
		},
		{
			name:         "weekly with interval",
			raw:          `{"type":"weekly","interval":2}`,
			wantType:     "weekly",
			wantInterval: 2,
		},
		{
			name:         "quoted numeric interval",
			raw:          `{"type":"monthly","interval":"2"}`,
			wantType:     "monthly",
			wantInterval: 2,
		},
		{
			name:         "missing interval defaults to one",
			raw:          `{"type":"daily"}`,
			wantType:     "daily",
			wantInterval: 1,
		},
		{
			name:         "zero interval clamped to one",
			raw:          `{"type":"daily","interval":0}`,
			wantType:     "daily",
			wantInterval: 1,
		},
		{
			name:         "negative interval clamped to one",
			raw:          `{"type":"weekly","interval":-5}`,
			wantType:     "weekly",
			wantInterval: 1,
		},
		{
			name:         "empty string",
			raw:          "",
			wantType:     "",
			wantInterval: 1,
		},
		{
			name:         "malformed json",
			raw:          `{"type":`,
			wantType:     "",
			wantInterval: 1,
		},
		{
			name:         "non-numeric quoted interval",
			raw:          `{"type":"daily","interval":"often"}`,
			wantType:     "daily",
			wantInterval: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRecurrencePattern(tt.raw)
			if got.Type != tt.wantType {
				t.Errorf("ParseRecurrencePattern(%q).Type = %q, want %q", tt.raw, got.Type, tt.wantType)
			}
			if got.Interval != tt.wantInterval {
				t.Errorf("ParseRecurrencePattern(%q).Interval = %d, want %d", tt.raw, got.Interval, tt.wantInterval)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	valid := []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
	for _, s := range valid {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	if ValidStatus("archived") {
		t.Error("ValidStatus(\"archived\") = true, want false")
	}
}

func TestValidPriority(t *testing.T) {
	valid := []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	for _, p := range valid {
		if !ValidPriority(p) {
			t.Errorf("ValidPriority(%q) = false, want true", p)
		}
	}
	if ValidPriority("critical") {
		t.Error("ValidPriority(\"critical\") = true, want false")
	}
}
