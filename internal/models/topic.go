package models

import (
	"time"
)

type Topic struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:500;not null" json:"description"`
	UserID      string    `gorm:"size:36;not null;index" json:"user_id"`
	Votes       VoteSet   `gorm:"serializer:json;type:jsonb;not null" json:"votes"`
	VoteCount   VoteTally `gorm:"embedded;embeddedPrefix:vote_count_" json:"vote_count"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CastVote sets the user's vote, replacing any earlier one, and refreshes the tally.
func (t *Topic) CastVote(userID string, value VoteValue) {
	if t.Votes == nil {
		t.Votes = VoteSet{}
	}
	t.Votes[userID] = value
	t.VoteCount = RecomputeTally(t.Votes)
}
