package agent

import (
	"errors"

	domain "github.com/example/pintask/domain/agent"
	"gorm.io/gorm"
)

// AgentRepository handles agent persistence using GORM.
type AgentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// Create inserts a new agent.
func (r *AgentRepository) Create(a *domain.Agent) error {
	return r.db.Create(a).Error
}

// FindByID finds an agent by ID.
func (r *AgentRepository) FindByID(id string) (*domain.Agent, error) {
	var a domain.Agent
	result := r.db.First(&a, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, result.Error
	}
	return &a, nil
}

// FindAll returns agents in creation order, optionally active only.
func (r *AgentRepository) FindAll(activeOnly bool) ([]domain.Agent, error) {
	var agents []domain.Agent
	q := r.db.Order("created_at asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

// Save persists changes to an existing agent.
func (r *AgentRepository) Save(a *domain.Agent) error {
	return r.db.Save(a).Error
}

// Delete removes an agent by ID.
func (r *AgentRepository) Delete(id string) error {
	result := r.db.Delete(&domain.Agent{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
