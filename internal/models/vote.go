package models

import "time"

// VoteEntity identifies which collection a vote belongs to.
type VoteEntity string

const (
	// VoteEntityPost marks a vote on a post.
	VoteEntityPost VoteEntity = "post"
	// VoteEntityReply marks a vote on a reply.
	VoteEntityReply VoteEntity = "reply"
)

// VoteDirection is the polarity of a vote.
type VoteDirection string

const (
	// VoteLike is an upvote.
	VoteLike VoteDirection = "like"
	// VoteDislike is a downvote.
	VoteDislike VoteDirection = "dislike"
)

// Valid reports whether the entity type is one of the known collections.
func (e VoteEntity) Valid() bool {
	return e == VoteEntityPost || e == VoteEntityReply
}

// Valid reports whether the direction is like or dislike.
func (d VoteDirection) Valid() bool {
	return d == VoteLike || d == VoteDislike
}

// Opposite returns the other polarity.
func (d VoteDirection) Opposite() VoteDirection {
	if d == VoteLike {
		return VoteDislike
	}
	return VoteLike
}

// Vote records a single user's like or dislike on a post or reply.
// The unique index on (user_id, entity_type, entity_id) guarantees a
// user holds at most one vote per entity, so the like and dislike sets
// can never intersect.
type Vote struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	UserID     uint          `gorm:"not null;uniqueIndex:idx_vote_user_entity" json:"user_id"`
	EntityType VoteEntity    `gorm:"type:varchar(10);not null;uniqueIndex:idx_vote_user_entity" json:"entity_type"`
	EntityID   uint          `gorm:"not null;uniqueIndex:idx_vote_user_entity" json:"entity_id"`
	Direction  VoteDirection `gorm:"type:varchar(10);not null" json:"direction"`
	CreatedAt  time.Time     `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// VoteState is the derived view of an entity's votes for one viewer:
// counts plus which side, if any, the viewer is on.
type VoteState struct {
	LikeCount      int  `json:"like_count"`
	DislikeCount   int  `json:"dislike_count"`
	ViewerLiked    bool `json:"viewer_liked"`
	ViewerDisliked bool `json:"viewer_disliked"`
}
