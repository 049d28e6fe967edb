package services

import (
	"context"
	"html/template"
	"time"

	"agora/internal/models"
	"agora/internal/store"
	"agora/internal/utils"
)

type TopicView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	User        models.UserRef   `json:"user"`
	Votes       models.VoteSet   `json:"votes"`
	VoteCount   models.VoteTally `json:"vote_count"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type CommentView struct {
	ID          string         `json:"id"`
	TopicID     string         `json:"topic_id"`
	ParentID    *string        `json:"parent_id"`
	Content     string         `json:"content"`
	ContentHTML template.HTML  `json:"content_html"`
	User        models.UserRef `json:"user"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CommentThread is a top-level comment with its direct replies.
type CommentThread struct {
	CommentView
	Replies []CommentView `json:"replies"`
}

// TopicPage 话题详情页：话题本身加上全部评论串
type TopicPage struct {
	Topic    TopicView       `json:"topic"`
	Comments []CommentThread `json:"comments"`
}

// Query composes read views. Every user reference it returns is a
// models.UserRef; full user records never leave this type.
type Query struct {
	topics   store.TopicStore
	comments store.CommentStore
	users    store.UserStore
	threads  *ThreadEngine
	names    *utils.Cache[string]
}

func NewQuery(topics store.TopicStore, comments store.CommentStore, users store.UserStore, names *utils.Cache[string]) *Query {
	return &Query{
		topics:   topics,
		comments: comments,
		users:    users,
		threads:  NewThreadEngine(topics, comments),
		names:    names,
	}
}

// authors resolves display names for ids. Names come from the cache when
// possible; a user that no longer exists resolves to an empty name.
func (q *Query) authors(ctx context.Context, ids ...string) (map[string]models.UserRef, error) {
	refs := make(map[string]models.UserRef, len(ids))
	var missing []string
	for _, id := range ids {
		if _, seen := refs[id]; seen {
			continue
		}
		if name, ok := q.names.Get(id); ok {
			refs[id] = models.UserRef{ID: id, Name: name}
			continue
		}
		refs[id] = models.UserRef{ID: id}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return refs, nil
	}

	users, err := q.users.UsersByIDs(ctx, missing)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	for _, u := range users {
		refs[u.ID] = u.Ref()
		q.names.Set(u.ID, u.Name)
	}
	return refs, nil
}

func topicView(t models.Topic, author models.UserRef) TopicView {
	votes := t.Votes
	if votes == nil {
		votes = models.VoteSet{}
	}
	return TopicView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		User:        author,
		Votes:       votes,
		VoteCount:   t.VoteCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func commentView(c models.Comment, author models.UserRef) CommentView {
	return CommentView{
		ID:          c.ID,
		TopicID:     c.TopicID,
		ParentID:    c.ParentID,
		Content:     c.Content,
		ContentHTML: utils.RenderMarkdown(c.Content),
		User:        author,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ViewTopic projects an already loaded topic.
func (q *Query) ViewTopic(ctx context.Context, t *models.Topic) (*TopicView, error) {
	refs, err := q.authors(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	v := topicView(*t, refs[t.UserID])
	return &v, nil
}

// ViewComment projects an already loaded comment.
func (q *Query) ViewComment(ctx context.Context, c *models.Comment) (*CommentView, error) {
	refs, err := q.authors(ctx, c.UserID)
	if err != nil {
		return nil, err
	}
	v := commentView(*c, refs[c.UserID])
	return &v, nil
}

func (q *Query) viewComments(ctx context.Context, comments []models.Comment) ([]CommentView, error) {
	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.UserID
	}
	refs, err := q.authors(ctx, ids...)
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = commentView(c, refs[c.UserID])
	}
	return views, nil
}

func (q *Query) GetTopic(ctx context.Context, id string) (*TopicView, error) {
	topic, err := q.topics.GetTopic(ctx, id)
	if err != nil {
		return nil, storeErr(err, "topic not found")
	}
	return q.ViewTopic(ctx, topic)
}

func (q *Query) ListTopics(ctx context.Context) ([]TopicView, error) {
	topics, err := q.topics.ListTopics(ctx)
	if err != nil {
		return nil, storeErr(err, "topic not found")
	}
	ids := make([]string, len(topics))
	for i, t := range topics {
		ids[i] = t.UserID
	}
	refs, err := q.authors(ctx, ids...)
	if err != nil {
		return nil, err
	}
	views := make([]TopicView, len(topics))
	for i, t := range topics {
		views[i] = topicView(t, refs[t.UserID])
	}
	return views, nil
}

func (q *Query) GetComment(ctx context.Context, id string) (*CommentView, error) {
	comment, err := q.comments.GetComment(ctx, id)
	if err != nil {
		return nil, storeErr(err, "comment not found")
	}
	return q.ViewComment(ctx, comment)
}

func (q *Query) TopLevelComments(ctx context.Context, topicID string) ([]CommentView, error) {
	comments, err := q.threads.TopLevelComments(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return q.viewComments(ctx, comments)
}

func (q *Query) Replies(ctx context.Context, parentID string) ([]CommentView, error) {
	replies, err := q.threads.Replies(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return q.viewComments(ctx, replies)
}

// CommentThread returns a comment together with its direct replies.
func (q *Query) CommentThread(ctx context.Context, id string) (*CommentThread, error) {
	comment, err := q.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	replies, err := q.Replies(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CommentThread{CommentView: *comment, Replies: replies}, nil
}

func (q *Query) TopicPage(ctx context.Context, id string) (*TopicPage, error) {
	topic, err := q.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}
	top, err := q.TopLevelComments(ctx, id)
	if err != nil {
		return nil, err
	}
	page := &TopicPage{Topic: *topic, Comments: make([]CommentThread, len(top))}
	for i, c := range top {
		replies, err := q.Replies(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		page.Comments[i] = CommentThread{CommentView: c, Replies: replies}
	}
	return page, nil
}
