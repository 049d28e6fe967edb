package models

import (
	"errors"
	"time"
)

// ErrNestedReply 不允许回复一条回复，评论只有一层嵌套
var ErrNestedReply = errors.New("cannot reply to a reply")

type CommentKind string

const (
	CommentTopLevel CommentKind = "top_level"
	CommentReply    CommentKind = "reply"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TopicID   string    `gorm:"size:36;not null;index:idx_comments_topic_parent" json:"topic_id"`
	ParentID  *string   `gorm:"size:36;index;index:idx_comments_topic_parent" json:"parent_id"` // nil 表示顶层评论
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	Content   string    `gorm:"size:500;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTopLevelComment builds a comment attached directly to a topic.
func NewTopLevelComment(topicID, userID, content string) Comment {
	return Comment{TopicID: topicID, UserID: userID, Content: content}
}

// NewReply builds a reply to parent. The reply always takes the parent's topic,
// and parent must be top-level.
func NewReply(parent Comment, userID, content string) (Comment, error) {
	if parent.Kind() != CommentTopLevel {
		return Comment{}, ErrNestedReply
	}
	parentID := parent.ID
	return Comment{
		TopicID:  parent.TopicID,
		ParentID: &parentID,
		UserID:   userID,
		Content:  content,
	}, nil
}

func (c Comment) Kind() CommentKind {
	if c.ParentID == nil {
		return CommentTopLevel
	}
	return CommentReply
}

func (c Comment) IsTopLevel() bool {
	return c.Kind() == CommentTopLevel
}
