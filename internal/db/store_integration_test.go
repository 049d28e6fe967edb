package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"agora/internal/models"
	"agora/internal/store"
)

func getTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	gdb, err := Open(dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	st := NewStore(gdb)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestUpdateTopicLocksRow(t *testing.T) {
	st := getTestStore(t)
	ctx := context.Background()

	topic := &models.Topic{Title: "integration", Description: "row lock", UserID: "u1"}
	if err := st.CreateTopic(ctx, topic); err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	const voters = 20
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("voter-%d", i)
			if _, err := st.UpdateTopic(ctx, topic.ID, func(t *models.Topic) error {
				t.CastVote(user, models.VoteDown)
				return nil
			}); err != nil {
				t.Errorf("UpdateTopic failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := st.GetTopic(ctx, topic.ID)
	if err != nil {
		t.Fatalf("GetTopic failed: %v", err)
	}
	if len(got.Votes) != voters || got.VoteCount.Down != voters || got.VoteCount.Total != -voters {
		t.Fatalf("lost updates: %d votes, tally %+v", len(got.Votes), got.VoteCount)
	}
}

func TestCommentQueries(t *testing.T) {
	st := getTestStore(t)
	ctx := context.Background()

	topic := &models.Topic{Title: "integration", Description: "comments", UserID: "u1"}
	st.CreateTopic(ctx, topic)

	root := models.NewTopLevelComment(topic.ID, "u1", "root")
	if err := st.CreateComment(ctx, &root); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	reply, _ := models.NewReply(root, "u2", "reply")
	if err := st.CreateComment(ctx, &reply); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	top, err := st.TopLevelComments(ctx, topic.ID)
	if err != nil || len(top) != 1 || top[0].ID != root.ID {
		t.Fatalf("unexpected top-level comments %+v (%v)", top, err)
	}
	replies, err := st.Replies(ctx, root.ID)
	if err != nil || len(replies) != 1 || replies[0].ID != reply.ID {
		t.Fatalf("unexpected replies %+v (%v)", replies, err)
	}
	if _, err := st.GetComment(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
