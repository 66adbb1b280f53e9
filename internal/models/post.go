// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a top-level discussion item in the forum.
type Post struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	Title   string   `gorm:"not null" json:"title"`
	Content string   `gorm:"type:text;not null" json:"content"`
	UserID  uint     `gorm:"not null;index" json:"user_id"`
	User    User     `gorm:"foreignKey:UserID" json:"user"`
	Tags    []string `gorm:"serializer:json" json:"tags"`
	// LikeCount is not persisted; computed at query time
	LikeCount int `gorm:"->" json:"like_count"`
	// DislikeCount is not persisted; computed at query time
	DislikeCount int `gorm:"->" json:"dislike_count"`
	// ViewerLiked indicates whether the requesting user liked this post (computed)
	ViewerLiked bool `gorm:"->" json:"viewer_liked"`
	// ViewerDisliked indicates whether the requesting user disliked this post (computed)
	ViewerDisliked bool           `gorm:"->" json:"viewer_disliked"`
	RepliesCount   int            `gorm:"->" json:"replies_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
