package auth

import (
	"errors"
	"time"

	domain "github.com/example/pintask/domain/user"
	"gorm.io/gorm"
)

// UserRepository handles user persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(u *domain.User) error {
	result := r.db.Create(u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailExists
		}
		return result.Error
	}
	return nil
}

// FindByID finds a user by ID.
func (r *UserRepository) FindByID(id string) (*domain.User, error) {
	var u domain.User
	result := r.db.First(&u, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, result.Error
	}
	return &u, nil
}

// FindActive returns all active users. PIN login scans this set, so the
// ordering is stable to keep verification order deterministic.
func (r *UserRepository) FindActive() ([]domain.User, error) {
	var users []domain.User
	result := r.db.Where("is_active = ?", true).Order("created_at asc").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// FindAll returns every user, newest first.
func (r *UserRepository) FindAll() ([]domain.User, error) {
	var users []domain.User
	result := r.db.Order("created_at desc").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// EmailExists reports whether a user with the given email exists.
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	result := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// Save persists changes to an existing user.
func (r *UserRepository) Save(u *domain.User) error {
	return r.db.Save(u).Error
}

// Delete removes a user by ID.
func (r *UserRepository) Delete(id string) error {
	result := r.db.Delete(&domain.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(id string) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}
