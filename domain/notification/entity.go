package notification

import "time"

// Channel identifies how a notification was (or would be) delivered.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
)

// DeliveryStatus records the outcome of a delivery attempt.
type DeliveryStatus string

const (
	StatusSent   DeliveryStatus = "sent"
	StatusFailed DeliveryStatus = "failed"
)

// Log is a record of a composed notification. The actual delivery transport
// is out of scope; the digest job composes messages and records them here.
type Log struct {
	ID        string         `gorm:"primaryKey;type:text"`
	UserID    string         `gorm:"not null;type:text;index"`
	Recipient string         `gorm:"type:text"`
	Channel   Channel        `gorm:"type:text"`
	Status    DeliveryStatus `gorm:"type:text"`
	Subject   string         `gorm:"type:text"`
	Message   string         `gorm:"type:text"`
	TaskCount int
	SentAt    *time.Time
	CreatedAt time.Time
}

// TableName returns the table name for the Log entity.
func (Log) TableName() string {
	return "notification_logs"
}
