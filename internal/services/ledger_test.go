package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"agora/internal/models"
)

func seedTopic(t *testing.T, fs *fakeStore, userID string) *models.Topic {
	t.Helper()
	topic, err := NewTopicService(fs).CreateTopic(context.Background(), userID, "  Lunch venue  ", "Where should we eat on Friday?")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	return topic
}

func TestCastVoteScenario(t *testing.T) {
	fs := newFakeStore()
	ledger := NewVoteLedger(fs)
	topic := seedTopic(t, fs, "user-a")
	ctx := context.Background()

	steps := []struct {
		user, value string
		want        models.VoteTally
		wantLen     int
	}{
		{"user-b", "up", models.VoteTally{Up: 1, Down: 0, Total: 1}, 1},
		{"user-c", "down", models.VoteTally{Up: 1, Down: 1, Total: 0}, 2},
		{"user-b", "down", models.VoteTally{Up: 0, Down: 2, Total: -2}, 2},
	}
	for _, step := range steps {
		got, err := ledger.CastVote(ctx, topic.ID, step.user, step.value)
		if err != nil {
			t.Fatalf("CastVote(%s, %s) failed: %v", step.user, step.value, err)
		}
		if got.VoteCount != step.want {
			t.Errorf("after %s %s: expected tally %+v, got %+v", step.user, step.value, step.want, got.VoteCount)
		}
		if len(got.Votes) != step.wantLen {
			t.Errorf("after %s %s: expected %d votes, got %d", step.user, step.value, step.wantLen, len(got.Votes))
		}
	}

	stored, _ := fs.GetTopic(ctx, topic.ID)
	if stored.VoteCount != models.RecomputeTally(stored.Votes) {
		t.Errorf("persisted tally %+v does not match votes %v", stored.VoteCount, stored.Votes)
	}
}

func TestCastVoteReplacesAndIsIdempotent(t *testing.T) {
	fs := newFakeStore()
	ledger := NewVoteLedger(fs)
	topic := seedTopic(t, fs, "user-a")
	ctx := context.Background()

	for _, value := range []string{"up", "up"} {
		if _, err := ledger.CastVote(ctx, topic.ID, "user-b", value); err != nil {
			t.Fatalf("CastVote failed: %v", err)
		}
	}
	got, _ := fs.GetTopic(ctx, topic.ID)
	if len(got.Votes) != 1 || got.Votes["user-b"] != models.VoteUp {
		t.Fatalf("expected a single up vote, got %v", got.Votes)
	}

	if _, err := ledger.CastVote(ctx, topic.ID, "user-b", "down"); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	got, _ = fs.GetTopic(ctx, topic.ID)
	if len(got.Votes) != 1 || got.Votes["user-b"] != models.VoteDown {
		t.Fatalf("expected the vote to be replaced by down, got %v", got.Votes)
	}
}

func TestCastVoteRejectsInvalidValue(t *testing.T) {
	fs := newFakeStore()
	ledger := NewVoteLedger(fs)
	topic := seedTopic(t, fs, "user-a")

	for _, value := range []string{"", "UP", "sideways", "1"} {
		_, err := ledger.CastVote(context.Background(), topic.ID, "user-b", value)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("value %q: expected ErrInvalidArgument, got %v", value, err)
		}
	}
	got, _ := fs.GetTopic(context.Background(), topic.ID)
	if len(got.Votes) != 0 {
		t.Errorf("expected no votes to be recorded, got %v", got.Votes)
	}
}

func TestCastVoteUnknownTopic(t *testing.T) {
	ledger := NewVoteLedger(newFakeStore())
	_, err := ledger.CastVote(context.Background(), "missing", "user-b", "up")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "topic not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCastVoteStoreFailure(t *testing.T) {
	fs := newFakeStore()
	topic := seedTopic(t, fs, "user-a")
	fs.failWith = errors.New("connection refused")

	_, err := NewVoteLedger(fs).CastVote(context.Background(), topic.ID, "user-b", "up")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("store failure must not look like NotFound")
	}
}

func TestCastVoteConcurrent(t *testing.T) {
	fs := newFakeStore()
	ledger := NewVoteLedger(fs)
	topic := seedTopic(t, fs, "user-a")
	ctx := context.Background()

	const voters = 40
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("voter-%d", i)
			value := "up"
			if i%4 == 0 {
				value = "down"
			}
			// a rapid double vote by the same user
			ledger.CastVote(ctx, topic.ID, user, "up")
			if _, err := ledger.CastVote(ctx, topic.ID, user, value); err != nil {
				t.Errorf("CastVote failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := fs.GetTopic(ctx, topic.ID)
	want := models.VoteTally{Up: 30, Down: 10, Total: 20}
	if len(got.Votes) != voters {
		t.Fatalf("expected %d votes, got %d", voters, len(got.Votes))
	}
	if got.VoteCount != want {
		t.Fatalf("expected tally %+v, got %+v", want, got.VoteCount)
	}
}
