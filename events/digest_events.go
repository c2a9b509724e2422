package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// DigestSentEvent is emitted when the notification digest job composes a
// digest for a user.
type DigestSentEvent struct {
	UserID    string    `json:"user_id"`
	Recipient string    `json:"recipient"`
	TaskCount int       `json:"task_count"`
	SentAt    time.Time `json:"sent_at"`
}

// DigestSentV1 is the typed event definition for digest delivery.
// Subject: events.notify.v1.digest-sent
var DigestSentV1 = helper.EventDefinition[DigestSentEvent](
	"notify", "DigestSent", "v1",
)
