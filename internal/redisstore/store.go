// Package redisstore keeps topics, comments and users in Redis. Entities are
// JSON documents; foreign-key lookups are sorted-set indexes scored by
// creation time.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agora/internal/models"
	"agora/internal/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// maxUpdateAttempts bounds optimistic retries of UpdateTopic. A WATCH conflict
// means another writer committed, so a writer that keeps losing is starved by
// at most as many concurrent writers as there are.
const maxUpdateAttempts = 50

// ErrContention is returned when UpdateTopic gives up after repeated conflicts.
var ErrContention = errors.New("too many concurrent updates")

type Store struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// New connects to redisURL and verifies the connection.
func New(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewWithClient(client), nil
}

func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client, prefix: "agora:", now: time.Now}
}

// 文档键和索引键分属不同前缀，任何 id 都拼不出索引键
func (s *Store) topicKey(id string) string { return s.prefix + "topic:" + id }
func (s *Store) commentKey(id string) string { return s.prefix + "comment:" + id }
func (s *Store) userKey(id string) string { return s.prefix + "user:" + id }
func (s *Store) topicsKey() string { return s.prefix + "idx:topics" }
func (s *Store) topicCommentsKey(id string) string { return s.prefix + "idx:topic-comments:" + id }
func (s *Store) repliesKey(id string) string { return s.prefix + "idx:replies:" + id }
func (s *Store) emailKey(email string) string { return s.prefix + "idx:user-email:" + email }

func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}

// userRecord carries the password hash, which models.User never serializes.
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// loadIndex reads ids from a sorted-set index, newest first, and fetches the
// documents in one MGET. Ids whose document is gone are skipped.
func loadIndex[T any](ctx context.Context, s *Store, index string, docKey func(string) string) ([]T, error) {
	ids, err := s.client.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", index, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}
	raws, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Store) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	var topic models.Topic
	if err := s.getJSON(ctx, s.topicKey(id), &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

func (s *Store) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return loadIndex[models.Topic](ctx, s, s.topicsKey(), s.topicKey)
}

func (s *Store) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	if topic.Votes == nil {
		topic.Votes = models.VoteSet{}
	}
	now := s.now()
	topic.CreatedAt, topic.UpdatedAt = now, now

	data, err := json.Marshal(topic)
	if err != nil {
		return fmt.Errorf("encode topic: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.topicKey(topic.ID), data, 0)
		pipe.ZAdd(ctx, s.topicsKey(), redis.Z{Score: score(now), Member: topic.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// UpdateTopic runs mutate inside a WATCH/MULTI transaction on the topic key and
// retries when another writer got there first.
func (s *Store) UpdateTopic(ctx context.Context, id string, mutate store.TopicMutator) (*models.Topic, error) {
	key := s.topicKey(id)
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var topic models.Topic
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return store.ErrNotFound
			}
			if err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &topic); err != nil {
				return fmt.Errorf("decode topic: %w", err)
			}
			if err := mutate(&topic); err != nil {
				return err
			}
			topic.UpdatedAt = s.now()
			data, err := json.Marshal(&topic)
			if err != nil {
				return fmt.Errorf("encode topic: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, 0)
				return nil
			})
			return err
		}, key)
		switch {
		case err == nil:
			return &topic, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("update topic %s: %w", id, ErrContention)
}

func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.getJSON(ctx, s.commentKey(id), &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	now := s.now()
	comment.CreatedAt, comment.UpdatedAt = now, now

	data, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("encode comment: %w", err)
	}
	index := s.topicCommentsKey(comment.TopicID)
	if comment.ParentID != nil {
		index = s.repliesKey(*comment.ParentID)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.commentKey(comment.ID), data, 0)
		pipe.ZAdd(ctx, index, redis.Z{Score: score(now), Member: comment.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s *Store) TopLevelComments(ctx context.Context, topicID string) ([]models.Comment, error) {
	return loadIndex[models.Comment](ctx, s, s.topicCommentsKey(topicID), s.commentKey)
}

func (s *Store) Replies(ctx context.Context, parentID string) ([]models.Comment, error) {
	return loadIndex[models.Comment](ctx, s, s.repliesKey(parentID), s.commentKey)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var rec userRecord
	if err := s.getJSON(ctx, s.userKey(id), &rec); err != nil {
		return nil, err
	}
	user := rec.User
	user.Password = rec.PasswordHash
	return &user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := s.client.Get(ctx, s.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	return s.GetUser(ctx, id)
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.userKey(id)
	}
	raws, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	users := make([]models.User, 0, len(raws))
	for _, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var rec userRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, rec.User)
	}
	return users, nil
}

// CreateUser claims the email with SETNX first so two registrations for the
// same address cannot both succeed.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	ok, err := s.client.SetNX(ctx, s.emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("claim email: %w", err)
	}
	if !ok {
		return store.ErrDuplicate
	}

	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	data, err := json.Marshal(userRecord{User: *user, PasswordHash: user.Password})
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.client.Set(ctx, s.userKey(user.ID), data, 0).Err(); err != nil {
		s.client.Del(ctx, s.emailKey(user.Email))
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
