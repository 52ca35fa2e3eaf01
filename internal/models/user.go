package models

import (
	"time"
)

const (
	RoleReader = "reader"
	RoleAdmin  = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"` // stored lower-case
	Password  string    `json:"-"`                                 // bcrypt hash, empty for OAuth-only accounts
	Role      string    `gorm:"size:20;default:'reader';not null" json:"role"`
	GithubID  *string   `gorm:"uniqueIndex" json:"github_id,omitempty"` // GitHub user ID, nil when unlinked
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
