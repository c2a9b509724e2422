package user

import (
	"errors"
	"time"
)

// Role controls what a user may do: clients manage their own tasks and
// calendars, admins additionally manage users, agents and other users' tasks.
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailExists is returned when a user with the same email already exists.
	ErrEmailExists = errors.New("user with this email already exists")
)

// User is a tenant of the task manager. Authentication is PIN-based: the
// bcrypt hash of the user's numeric PIN is the only credential stored.
type User struct {
	ID          string `gorm:"primaryKey;type:text"`
	Email       string `gorm:"uniqueIndex;not null;type:text"`
	FullName    string `gorm:"type:text"`
	PINHash     string `gorm:"column:pin_hash;not null;type:text"`
	Role        Role   `gorm:"type:text;default:client"`
	IsActive    bool   `gorm:"default:true"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
