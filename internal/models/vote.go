package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// VoteValue 投票方向
type VoteValue string

const (
	VoteUp   VoteValue = "up"
	VoteDown VoteValue = "down"
)

// ParseVoteValue 校验投票值，只接受 up / down
func ParseVoteValue(s string) (VoteValue, error) {
	switch v := VoteValue(s); v {
	case VoteUp, VoteDown:
		return v, nil
	}
	return "", fmt.Errorf("vote value must be 'up' or 'down', got %q", s)
}

// VoteSet maps a user id to that user's current vote on a topic.
type VoteSet map[string]VoteValue

type voteEntry struct {
	User  string    `json:"user"`
	Value VoteValue `json:"value"`
}

// MarshalJSON writes the set as a list of {user, value} entries ordered by user id.
func (s VoteSet) MarshalJSON() ([]byte, error) {
	entries := make([]voteEntry, 0, len(s))
	for user, value := range s {
		entries = append(entries, voteEntry{User: user, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].User < entries[j].User })
	return json.Marshal(entries)
}

// UnmarshalJSON accepts the list form; a later entry for the same user wins.
func (s *VoteSet) UnmarshalJSON(data []byte) error {
	var entries []voteEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	set := make(VoteSet, len(entries))
	for _, e := range entries {
		set[e.User] = e.Value
	}
	*s = set
	return nil
}

// VoteTally 由 VoteSet 推导出的计数
type VoteTally struct {
	Up    int `json:"up"`
	Down  int `json:"down"`
	Total int `json:"total"`
}

// RecomputeTally derives the tally from the vote set. It has no side effects.
func RecomputeTally(votes VoteSet) VoteTally {
	var t VoteTally
	for _, v := range votes {
		switch v {
		case VoteUp:
			t.Up++
		case VoteDown:
			t.Down++
		}
	}
	t.Total = t.Up - t.Down
	return t
}
