package db

import (
	"context"
	"errors"

	"agora/internal/models"
	"agora/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements store.Store on top of gorm.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	var topic models.Topic
	if err := s.db.WithContext(ctx).First(&topic, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &topic, nil
}

func (s *Store) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&topics).Error
	return topics, translate(err)
}

func (s *Store) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	if topic.Votes == nil {
		topic.Votes = models.VoteSet{}
	}
	return translate(s.db.WithContext(ctx).Create(topic).Error)
}

// UpdateTopic 在事务中对行加锁 (SELECT ... FOR UPDATE)，保证同一话题的并发投票串行执行
func (s *Store) UpdateTopic(ctx context.Context, id string, mutate store.TopicMutator) (*models.Topic, error) {
	var topic models.Topic
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&topic, "id = ?", id).Error; err != nil {
			return err
		}
		if err := mutate(&topic); err != nil {
			return err
		}
		return tx.Save(&topic).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &topic, nil
}

func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(comment).Error)
}

func (s *Store) TopLevelComments(ctx context.Context, topicID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("topic_id = ? AND parent_id IS NULL", topicID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, translate(err)
}

func (s *Store) Replies(ctx context.Context, parentID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, translate(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, translate(err)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
