package store

import (
	"context"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/dkeye/CodeRoom/internal/domain"
)

// MemoryStore is used when no Redis address is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	problems map[string]domain.Question
	scores   map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		problems: make(map[string]domain.Question),
		scores:   make(map[string]int),
	}
}

func (s *MemoryStore) PutProblem(_ context.Context, name string, q domain.Question) error {
	if err := validateProblem(name, q); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems[name] = q
	return nil
}

func (s *MemoryStore) GetProblem(_ context.Context, name string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.problems[name]
	if !ok {
		return domain.Question{}, ErrProblemNotFound
	}
	return q, nil
}

func (s *MemoryStore) ListProblems(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := lo.Keys(s.problems)
	slices.Sort(names)
	return names, nil
}

func (s *MemoryStore) RecordAward(_ context.Context, _ domain.RoomName, username string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[username] += points
	return nil
}

func (s *MemoryStore) Top(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := domain.Leaderboard(s.scores)
	s.mu.RUnlock()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
