package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedBy string    `json:"created_by"`
	Content   string    `gorm:"type:text;not null" json:"content"` // sanitized inline HTML
	CreatedAt time.Time `json:"created_at"`
}
