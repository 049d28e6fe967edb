// Package store declares the persistence contract shared by the PostgreSQL and
// Redis backends.
package store

import (
	"context"
	"errors"

	"agora/internal/models"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique key (user email) is already taken.
var ErrDuplicate = errors.New("duplicate record")

// TopicMutator changes a loaded topic in place before it is written back.
// Returning an error aborts the update and nothing is persisted.
type TopicMutator func(*models.Topic) error

type TopicStore interface {
	GetTopic(ctx context.Context, id string) (*models.Topic, error)
	// ListTopics returns every topic, newest first.
	ListTopics(ctx context.Context) ([]models.Topic, error)
	CreateTopic(ctx context.Context, topic *models.Topic) error
	// UpdateTopic loads, mutates and persists one topic as a single atomic update.
	UpdateTopic(ctx context.Context, id string, mutate TopicMutator) (*models.Topic, error)
}

type CommentStore interface {
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	// TopLevelComments returns comments of topicID without a parent, newest first.
	TopLevelComments(ctx context.Context, topicID string) ([]models.Comment, error)
	// Replies returns the direct replies of parentID, newest first.
	Replies(ctx context.Context, parentID string) ([]models.Comment, error)
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UsersByIDs returns the users that exist among ids, in no particular order.
	UsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// Store is everything a backend provides.
type Store interface {
	TopicStore
	CommentStore
	UserStore
	Ping(ctx context.Context) error
	Close() error
}
