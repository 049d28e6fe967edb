package services

import (
	"context"

	"agora/internal/models"
	"agora/internal/store"
)

// VoteLedger 负责话题投票：每个用户每个话题最多一票，每次变更后重新计算计数
type VoteLedger struct {
	topics store.TopicStore
}

func NewVoteLedger(topics store.TopicStore) *VoteLedger {
	return &VoteLedger{topics: topics}
}

// CastVote records userID's vote on topicID, replacing any earlier vote by the
// same user. The vote set and tally are written back in one atomic update.
func (l *VoteLedger) CastVote(ctx context.Context, topicID, userID, value string) (*models.Topic, error) {
	v, err := models.ParseVoteValue(value)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if userID == "" {
		return nil, invalid("user id is required")
	}

	topic, err := l.topics.UpdateTopic(ctx, topicID, func(t *models.Topic) error {
		t.CastVote(userID, v)
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "topic not found")
	}
	return topic, nil
}
