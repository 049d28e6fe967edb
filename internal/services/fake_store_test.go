package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"agora/internal/models"
	"agora/internal/store"
)

// fakeStore keeps entities in memory. failWith, when set, is returned from
// every call to simulate an unreachable backend.
type fakeStore struct {
	mu       sync.Mutex
	seq      int
	clock    time.Time
	topics   map[string]models.Topic
	comments map[string]models.Comment
	users    map[string]models.User
	failWith error
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		topics:   map[string]models.Topic{},
		comments: map[string]models.Comment{},
		users:    map[string]models.User{},
	}
}

// next returns a fresh id and a strictly increasing timestamp. Callers hold mu.
func (f *fakeStore) next(prefix string) (string, time.Time) {
	f.seq++
	f.clock = f.clock.Add(time.Second)
	return fmt.Sprintf("%s-%d", prefix, f.seq), f.clock
}

func copyTopic(t models.Topic) models.Topic {
	votes := make(models.VoteSet, len(t.Votes))
	for k, v := range t.Votes {
		votes[k] = v
	}
	t.Votes = votes
	return t
}

func (f *fakeStore) GetTopic(_ context.Context, id string) (*models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	t, ok := f.topics[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	t = copyTopic(t)
	return &t, nil
}

func (f *fakeStore) ListTopics(_ context.Context) ([]models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []models.Topic
	for _, t := range f.topics {
		out = append(out, copyTopic(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) CreateTopic(_ context.Context, topic *models.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	id, now := f.next("topic")
	topic.ID, topic.CreatedAt, topic.UpdatedAt = id, now, now
	if topic.Votes == nil {
		topic.Votes = models.VoteSet{}
	}
	f.topics[id] = copyTopic(*topic)
	return nil
}

func (f *fakeStore) UpdateTopic(_ context.Context, id string, mutate store.TopicMutator) (*models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	t, ok := f.topics[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	t = copyTopic(t)
	if err := mutate(&t); err != nil {
		return nil, err
	}
	f.topics[id] = copyTopic(t)
	return &t, nil
}

func (f *fakeStore) GetComment(_ context.Context, id string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	c, ok := f.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStore) CreateComment(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	id, now := f.next("comment")
	comment.ID, comment.CreatedAt, comment.UpdatedAt = id, now, now
	f.comments[id] = *comment
	return nil
}

func (f *fakeStore) filterComments(keep func(models.Comment) bool) []models.Comment {
	var out []models.Comment
	for _, c := range f.comments {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) TopLevelComments(_ context.Context, topicID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.filterComments(func(c models.Comment) bool {
		return c.TopicID == topicID && c.ParentID == nil
	}), nil
}

func (f *fakeStore) Replies(_ context.Context, parentID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.filterComments(func(c models.Comment) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID, _ = f.next("user")
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return f.failWith }
func (f *fakeStore) Close() error { return nil }

// addUser seeds a user directly.
func (f *fakeStore) addUser(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id] = models.User{ID: id, Name: name, Email: id + "@example.com", Password: "hash"}
}
