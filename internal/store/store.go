//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/dkeye/CodeRoom/internal/domain"
)

var (
	ErrProblemNotFound = errors.New("problem not found")
	ErrBadProblem      = errors.New("problem needs a name, content and answer")
)

// ProblemStore is the out-of-band catalogue admins load questions from.
type ProblemStore interface {
	PutProblem(ctx context.Context, name string, q domain.Question) error
	GetProblem(ctx context.Context, name string) (domain.Question, error)
	ListProblems(ctx context.Context) ([]string, error)
}

// ScoreArchive keeps scores across rooms and restarts.
type ScoreArchive interface {
	RecordAward(ctx context.Context, room domain.RoomName, username string, points int) error
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

func validateProblem(name string, q domain.Question) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(q.Content) == "" || strings.TrimSpace(q.Answer) == "" {
		return ErrBadProblem
	}
	return nil
}
