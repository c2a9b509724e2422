package calendar

import (
	"errors"
	"strings"

	domain "github.com/example/pintask/domain/calendar"
	"gorm.io/gorm"
)

// SourceRepository handles calendar source persistence using GORM.
type SourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new SourceRepository.
func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// Create inserts a new calendar source.
func (r *SourceRepository) Create(s *domain.Source) error {
	if err := r.db.Create(s).Error; err != nil {
		return mapSourceError(err)
	}
	return nil
}

// FindByID finds a source by ID.
func (r *SourceRepository) FindByID(id string) (*domain.Source, error) {
	var s domain.Source
	result := r.db.First(&s, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSourceNotFound
		}
		return nil, mapSourceError(result.Error)
	}
	return &s, nil
}

// FindByUserID returns a user's sources in registration order.
func (r *SourceRepository) FindByUserID(userID string) ([]domain.Source, error) {
	var sources []domain.Source
	result := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&sources)
	if result.Error != nil {
		return nil, mapSourceError(result.Error)
	}
	return sources, nil
}

// Delete removes a source by ID.
func (r *SourceRepository) Delete(id string) error {
	result := r.db.Delete(&domain.Source{}, "id = ?", id)
	if result.Error != nil {
		return mapSourceError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSourceNotFound
	}
	return nil
}

// mapSourceError translates a missing sources table into the typed
// setup-required condition. The aggregate view treats that as a soft
// degradation, not a failure.
func mapSourceError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "does not exist") {
		return domain.ErrSourcesUnavailable
	}
	return err
}
