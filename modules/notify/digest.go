package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/example/pintask/domain/notification"
	"github.com/example/pintask/events"
	"github.com/example/pintask/modules/auth"
	"github.com/example/pintask/modules/task"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// DefaultDueWindow is how far ahead the digest looks for upcoming tasks.
// Overdue tasks are always included.
const DefaultDueWindow = 24 * time.Hour

// DigestSender delivers a composed digest to a recipient. Actual transport
// (SMTP, push) lives outside this repository; the default sender writes to
// the application log.
type DigestSender interface {
	Send(ctx context.Context, recipient, subject, message string) error
}

// logSender is the default DigestSender.
type logSender struct{}

func (logSender) Send(_ context.Context, recipient, subject, _ string) error {
	log.Printf("[notify] digest to %s: %s", recipient, subject)
	return nil
}

// DigestService composes and sends per-user task digests.
type DigestService struct {
	authPort auth.AuthPort
	taskPort task.TaskPort
	repo     *LogRepository
	sender   DigestSender
	eventBus mono.EventBus
}

// NewDigestService creates a new DigestService.
func NewDigestService(authPort auth.AuthPort, taskPort task.TaskPort, repo *LogRepository, sender DigestSender) *DigestService {
	if sender == nil {
		sender = logSender{}
	}
	return &DigestService{authPort: authPort, taskPort: taskPort, repo: repo, sender: sender}
}

// SetEventBus injects the event bus for digest events.
func (s *DigestService) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

// Run sends a digest to every active user with overdue or upcoming tasks.
// Per-user failures are counted, logged, and do not stop the run.
func (s *DigestService) Run(ctx context.Context, dueWithin time.Duration) (*RunDigestResponse, error) {
	if dueWithin <= 0 {
		dueWithin = DefaultDueWindow
	}

	users, err := s.authPort.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	resp := &RunDigestResponse{}
	cutoff := time.Now().Add(dueWithin)
	for i := range users.Users {
		u := &users.Users[i]
		if !u.IsActive {
			continue
		}
		resp.UsersProcessed++
		sent, err := s.digestUser(ctx, u.ID, u.Email, cutoff)
		if err != nil {
			resp.Failures++
			log.Printf("[notify] digest for user %s failed: %v", u.ID, err)
			continue
		}
		if sent {
			resp.DigestsSent++
		}
	}
	return resp, nil
}

// digestUser composes and sends one user's digest, recording the outcome in
// the notification log. Users with nothing due get no digest.
func (s *DigestService) digestUser(ctx context.Context, userID, email string, cutoff time.Time) (bool, error) {
	tasks, err := s.taskPort.ListPendingTasks(ctx, userID, cutoff)
	if err != nil {
		return false, fmt.Errorf("failed to list pending tasks: %w", err)
	}
	if len(tasks) == 0 {
		return false, nil
	}

	subject, message := composeDigest(tasks)
	now := time.Now()

	entry := &domain.Log{
		ID:        uuid.New().String(),
		UserID:    userID,
		Recipient: email,
		Channel:   domain.ChannelEmail,
		Status:    domain.StatusSent,
		Subject:   subject,
		Message:   message,
		TaskCount: len(tasks),
		SentAt:    &now,
		CreatedAt: now,
	}

	if err := s.sender.Send(ctx, email, subject, message); err != nil {
		entry.Status = domain.StatusFailed
		entry.SentAt = nil
		if logErr := s.repo.Create(entry); logErr != nil {
			log.Printf("[notify] failed to record failed digest for user %s: %v", userID, logErr)
		}
		return false, fmt.Errorf("failed to send digest: %w", err)
	}

	if err := s.repo.Create(entry); err != nil {
		log.Printf("[notify] failed to record digest for user %s: %v", userID, err)
	}

	s.emitDigestSent(userID, email, len(tasks), now)
	return true, nil
}

// composeDigest renders a subject line and a plain-text body from the
// pending tasks, oldest due first.
func composeDigest(tasks []task.TaskResponse) (string, string) {
	subject := fmt.Sprintf("You have %d task(s) due", len(tasks))

	var b strings.Builder
	b.WriteString("Tasks needing attention:\n")
	for i := range tasks {
		t := &tasks[i]
		b.WriteString("- ")
		b.WriteString(t.Title)
		if t.DueDate != nil {
			b.WriteString(" (due ")
			b.WriteString(t.DueDate.Format("Jan 2 15:04"))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return subject, b.String()
}

func (s *DigestService) emitDigestSent(userID, recipient string, taskCount int, sentAt time.Time) {
	if s.eventBus == nil {
		return
	}
	event := events.DigestSentEvent{
		UserID:    userID,
		Recipient: recipient,
		TaskCount: taskCount,
		SentAt:    sentAt,
	}
	if err := events.DigestSentV1.Publish(s.eventBus, event, nil); err != nil {
		log.Printf("[notify] Warning: failed to publish DigestSent event for user %s: %v", userID, err)
	}
}

// ListLogs returns recent notification log entries.
func (s *DigestService) ListLogs(_ context.Context, limit int) ([]domain.Log, error) {
	return s.repo.FindRecent(limit)
}
