package domain

import (
	"cmp"
	"encoding/json"
	"errors"
	"slices"

	"github.com/samber/lo"
)

var errBadLeaderboardEntry = errors.New("leaderboard entry: want [username, score]")

type LeaderboardEntry struct {
	Username string
	Score    int
}

// MarshalJSON encodes the entry as a [username, score] pair.
func (e LeaderboardEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Username, e.Score})
}

func (e *LeaderboardEntry) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return errBadLeaderboardEntry
	}
	if err := json.Unmarshal(pair[0], &e.Username); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Score)
}

// Leaderboard orders scores by score descending, then username ascending.
func Leaderboard(scores map[string]int) []LeaderboardEntry {
	out := lo.MapToSlice(scores, func(u string, s int) LeaderboardEntry {
		return LeaderboardEntry{Username: u, Score: s}
	})
	slices.SortFunc(out, CompareEntries)
	return out
}

// CompareEntries orders by score descending, then username ascending.
func CompareEntries(a, b LeaderboardEntry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Username, b.Username)
}
