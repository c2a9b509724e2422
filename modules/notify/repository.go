package notify

import (
	domain "github.com/example/pintask/domain/notification"
	"gorm.io/gorm"
)

// LogRepository handles notification log persistence using GORM.
type LogRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new LogRepository.
func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Create inserts a new notification log entry.
func (r *LogRepository) Create(l *domain.Log) error {
	return r.db.Create(l).Error
}

// FindRecent returns the most recent log entries, newest first.
func (r *LogRepository) FindRecent(limit int) ([]domain.Log, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []domain.Log
	result := r.db.Order("created_at desc").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, result.Error
	}
	return logs, nil
}
