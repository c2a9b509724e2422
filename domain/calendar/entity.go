package calendar

import (
	"errors"
	"time"
)

var (
	// ErrSourceNotFound is returned when a calendar source does not exist.
	ErrSourceNotFound = errors.New("calendar source not found")
	// ErrSourcesUnavailable indicates the calendar_sources table has not been
	// provisioned yet. It is an expected condition on fresh deployments and is
	// handled by degrading to internal-task events only, or by surfacing a
	// "setup required" response, rather than failing the request.
	ErrSourcesUnavailable = errors.New("calendar sources table not provisioned")
)

// Source is an external iCal feed registered by a user. Feeds are fetched
// fresh on every calendar view; no parsed events are persisted.
type Source struct {
	ID        string `gorm:"primaryKey;type:text"`
	UserID    string `gorm:"not null;type:text;index"`
	Name      string `gorm:"not null;type:text"`
	URL       string `gorm:"not null;type:text"`
	Type      string `gorm:"type:text"`
	Color     string `gorm:"type:text"`
	CreatedAt time.Time
}

// TableName returns the table name for the Source entity.
func (Source) TableName() string {
	return "calendar_sources"
}
