package services

import (
	"context"
	"strings"

	"agora/internal/models"
	"agora/internal/store"
)

type TopicService struct {
	topics store.TopicStore
}

func NewTopicService(topics store.TopicStore) *TopicService {
	return &TopicService{topics: topics}
}

// CreateTopic 创建话题，标题去除首尾空白后校验
func (s *TopicService) CreateTopic(ctx context.Context, userID, title, description string) (*models.Topic, error) {
	title = strings.TrimSpace(title)
	if err := checkText("title", title, MaxTitleLen); err != nil {
		return nil, err
	}
	if err := checkText("description", description, MaxDescriptionLen); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, invalid("user id is required")
	}

	topic := &models.Topic{
		Title:       title,
		Description: description,
		UserID:      userID,
		Votes:       models.VoteSet{},
	}
	if err := s.topics.CreateTopic(ctx, topic); err != nil {
		return nil, storeErr(err, "topic not found")
	}
	return topic, nil
}
