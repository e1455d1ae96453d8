package core

import (
	"errors"

	"github.com/dkeye/CodeRoom/internal/domain"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrRoomFull      = errors.New("room full")

	// errRoomClosed is returned by a room that was torn down after lookup.
	errRoomClosed = errors.New("room closed")
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// Merge folds o into r.
func (r *PublishResult) Merge(o PublishResult) {
	r.SendTo += o.SendTo
	r.Dropped = append(r.Dropped, o.Dropped...)
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
	Admin    bool          `json:"admin"`
}

// RoomState is a point-in-time copy of a room for APIs.
type RoomState struct {
	Name        domain.RoomName           `json:"name"`
	Admin       string                    `json:"admin"`
	Members     []MemberDTO               `json:"members"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	Questions   int                       `json:"questions"`
	Current     int                       `json:"current"`
	Time        int                       `json:"time"`
	Running     bool                      `json:"running"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
// Every method is serialized on the room and is a no-op once the room is closed.
type RoomService interface {
	Room() *domain.Room
	IsAdmin(username string) bool
	Closed() bool
	MemberCount() int
	MembersSnapshot() []MemberDTO
	State() RoomState

	Broadcast(evt any) PublishResult
	Chat(from, message string) PublishResult

	// CurrentQuestion returns the question under the cursor.
	CurrentQuestion() (domain.Question, bool)
	// ScoreSubmission adds points to username, echoes the submission and
	// broadcasts the leaderboard. It reports false if the room has ended.
	ScoreSubmission(username string, points int, echo domain.SubmissionEvent) (bool, PublishResult)
	AddQuestion(q domain.Question) PublishResult
	// NextQuestion advances the cursor if a next question exists.
	NextQuestion() (bool, PublishResult)
	SetTimerRunning(running bool)
	// Tick advances a running timer by one second.
	Tick() (int, bool, PublishResult)
}

type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	Admin       string          `json:"admin"`
	MemberCount int             `json:"client_count"`
}

// JoinRequest is what a connecting client asserts about the room.
type JoinRequest struct {
	Room     domain.RoomName
	Password string
	Admin    bool
}

// RoomManager is the registry of live rooms.
type RoomManager interface {
	// CreateOrJoin registers ms in the named room, creating it when the
	// caller asserts admin intent. The initial full-state broadcast is
	// part of a successful join.
	CreateOrJoin(req JoinRequest, ms MemberSession) (RoomService, PublishResult, error)
	// Leave removes sid; the room is torn down when it becomes empty.
	Leave(name domain.RoomName, sid SessionID) (survived bool, res PublishResult)
	// Delete ends room and returns the members that were in it. It reports
	// false when room was already ended.
	Delete(room RoomService) ([]MemberSession, PublishResult, bool)
	Get(name domain.RoomName) (RoomService, bool)
	List() []RoomInfo
	// Snapshot returns the rooms live at call time.
	Snapshot() []RoomService
}
