package models

import (
	"time"

	"gorm.io/gorm"
)

// Reply is a comment attached either directly to a post or nested under
// another reply. PostID is denormalized on every reply regardless of
// nesting depth so a whole thread can be loaded with one query.
// ParentID is nil for top-level replies.
type Reply struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	ParentID *uint  `gorm:"index" json:"parent_id"`
	// Vote aggregates are not persisted; computed at query time
	LikeCount      int            `gorm:"->" json:"like_count"`
	DislikeCount   int            `gorm:"->" json:"dislike_count"`
	ViewerLiked    bool           `gorm:"->" json:"viewer_liked"`
	ViewerDisliked bool           `gorm:"->" json:"viewer_disliked"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
