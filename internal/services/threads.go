package services

import (
	"context"

	"agora/internal/models"
	"agora/internal/store"
)

// ThreadEngine creates comments and replies and lists them in thread order.
// Comments nest exactly one level deep.
type ThreadEngine struct {
	topics   store.TopicStore
	comments store.CommentStore
}

func NewThreadEngine(topics store.TopicStore, comments store.CommentStore) *ThreadEngine {
	return &ThreadEngine{topics: topics, comments: comments}
}

func (e *ThreadEngine) CreateTopLevelComment(ctx context.Context, topicID, userID, content string) (*models.Comment, error) {
	if err := checkText("content", content, MaxContentLen); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, invalid("user id is required")
	}
	if _, err := e.topics.GetTopic(ctx, topicID); err != nil {
		return nil, storeErr(err, "topic not found")
	}

	comment := models.NewTopLevelComment(topicID, userID, content)
	if err := e.comments.CreateComment(ctx, &comment); err != nil {
		return nil, storeErr(err, "topic not found")
	}
	return &comment, nil
}

// CreateReply attaches a reply to parentID. The reply's topic comes from the
// parent, never from the caller.
func (e *ThreadEngine) CreateReply(ctx context.Context, parentID, userID, content string) (*models.Comment, error) {
	if err := checkText("content", content, MaxContentLen); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, invalid("user id is required")
	}
	parent, err := e.comments.GetComment(ctx, parentID)
	if err != nil {
		return nil, storeErr(err, "comment not found")
	}

	reply, err := models.NewReply(*parent, userID, content)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if err := e.comments.CreateComment(ctx, &reply); err != nil {
		return nil, storeErr(err, "comment not found")
	}
	return &reply, nil
}

// TopLevelComments lists the comments of topicID that are not replies, newest
// first. An unknown topic has no comments.
func (e *ThreadEngine) TopLevelComments(ctx context.Context, topicID string) ([]models.Comment, error) {
	comments, err := e.comments.TopLevelComments(ctx, topicID)
	if err != nil {
		return nil, storeErr(err, "topic not found")
	}
	return comments, nil
}

// Replies lists the direct replies of parentID, newest first. A parent that
// does not exist has no replies; this does not report NotFound.
func (e *ThreadEngine) Replies(ctx context.Context, parentID string) ([]models.Comment, error) {
	replies, err := e.comments.Replies(ctx, parentID)
	if err != nil {
		return nil, storeErr(err, "comment not found")
	}
	return replies, nil
}
