package agent

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an agent does not exist.
var ErrNotFound = errors.New("agent not found")

// Agent is an admin-managed external tool link surfaced on user dashboards.
type Agent struct {
	ID              string `gorm:"primaryKey;type:text"`
	Name            string `gorm:"not null;type:text"`
	Description     string `gorm:"type:text"`
	URL             string `gorm:"not null;type:text"`
	OpenInNewWindow bool
	IsActive        bool `gorm:"default:true;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for the Agent entity.
func (Agent) TableName() string {
	return "agents"
}
