package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"` // sanitized inline HTML
	CreatedBy string    `json:"created_by"`               // display-name snapshot at creation time
	CreatedAt time.Time `json:"created_at"`

	// Filled by queries, not persisted.
	Comments []Comment `gorm:"-" json:"comments"`
}
