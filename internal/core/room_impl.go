package core

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/telemetry"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room *domain.Room

	mu        sync.Mutex
	closed    bool
	members   []MemberSession // join order, stable for fan-out
	scores    map[string]int
	questions []domain.Question
	cursor    int
	elapsed   int
	running   bool
}

func newRoom(room *domain.Room) *roomImpl {
	return &roomImpl{
		room:   room,
		scores: make(map[string]int),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) IsAdmin(username string) bool { return r.room.Admin == username }

func (r *roomImpl) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *roomImpl) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.membersLocked()
}

func (r *roomImpl) membersLocked() []MemberDTO {
	return lo.Map(r.members, func(ms MemberSession, _ int) MemberDTO {
		u := ms.Meta().User
		return MemberDTO{ID: u.ID, Username: u.Username, Admin: r.IsAdmin(u.Username)}
	})
}

func (r *roomImpl) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := RoomState{
		Name:        r.room.Name,
		Admin:       r.room.Admin,
		Members:     r.membersLocked(),
		Leaderboard: domain.Leaderboard(r.scores),
		Questions:   len(r.questions),
		Time:        r.elapsed,
		Running:     r.running,
	}
	if len(r.questions) > 0 {
		st.Current = r.cursor + 1
	}
	return st
}

// join registers ms and re-syncs the whole room.
func (r *roomImpl) join(password string, ms MemberSession) (PublishResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return PublishResult{}, errRoomClosed
	}
	if password != r.room.Password {
		return PublishResult{}, ErrWrongPassword
	}
	if len(r.members) >= r.room.Capacity {
		return PublishResult{}, ErrRoomFull
	}
	return r.addLocked(ms), nil
}

func (r *roomImpl) addLocked(ms MemberSession) PublishResult {
	meta := ms.Meta()
	meta.Admin = r.IsAdmin(meta.Username())
	r.members = append(r.members, ms)
	if _, ok := r.scores[meta.Username()]; !ok {
		r.scores[meta.Username()] = 0
	}
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("sid", string(ms.ID())).Str("user", meta.Username()).Int("members", len(r.members)).Msg("member added")

	var res PublishResult
	res.Merge(r.publishLocked(r.onlineLocked()))
	res.Merge(r.publishLocked(r.leaderboardLocked()))
	res.Merge(r.publishLocked(domain.TimerEvent{Type: domain.EventTimer, Time: r.elapsed}))
	if q, ok := r.questionLocked(); ok {
		res.Merge(r.publishLocked(q))
	}
	return res
}

// leave drops sid. When the last member goes the room is closed and the
// caller must unlink it.
func (r *roomImpl) leave(sid SessionID) (empty bool, res PublishResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, res
	}
	idx := slices.IndexFunc(r.members, func(ms MemberSession) bool { return ms.ID() == sid })
	if idx < 0 {
		return false, res
	}
	r.members = slices.Delete(r.members, idx, idx+1)
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("sid", string(sid)).Int("members", len(r.members)).Msg("member removed")

	if len(r.members) == 0 {
		r.closed = true
		return true, res
	}
	res.Merge(r.publishLocked(r.onlineLocked()))
	res.Merge(r.publishLocked(r.leaderboardLocked()))
	return false, res
}

// end tells everyone the room is over and closes it.
func (r *roomImpl) end() ([]MemberSession, PublishResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, PublishResult{}, false
	}
	res := r.publishLocked(domain.SimpleEvent{Type: domain.EventRoomEnded})
	r.closed = true
	members := r.members
	r.members = nil
	return members, res, true
}

func (r *roomImpl) Broadcast(evt any) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return PublishResult{}
	}
	return r.publishLocked(evt)
}

func (r *roomImpl) Chat(from, message string) PublishResult {
	return r.Broadcast(domain.ChatEvent{Type: domain.EventChat, User: from, Message: message})
}

func (r *roomImpl) CurrentQuestion() (domain.Question, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || len(r.questions) == 0 {
		return domain.Question{}, false
	}
	return r.questions[r.cursor], true
}

func (r *roomImpl) ScoreSubmission(username string, points int, echo domain.SubmissionEvent) (bool, PublishResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, PublishResult{}
	}
	if points > 0 {
		r.scores[username] += points
	}
	var res PublishResult
	echo.Type = domain.EventSubmission
	res.Merge(r.publishLocked(echo))
	res.Merge(r.publishLocked(r.leaderboardLocked()))
	return true, res
}

func (r *roomImpl) AddQuestion(q domain.Question) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return PublishResult{}
	}
	r.questions = append(r.questions, q)
	evt, _ := r.questionLocked()
	return r.publishLocked(evt)
}

func (r *roomImpl) NextQuestion() (bool, PublishResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.cursor+1 >= len(r.questions) {
		return false, PublishResult{}
	}
	r.cursor++
	evt, _ := r.questionLocked()
	return true, r.publishLocked(evt)
}

func (r *roomImpl) SetTimerRunning(running bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.running = running
}

func (r *roomImpl) Tick() (int, bool, PublishResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || !r.running {
		return r.elapsed, false, PublishResult{}
	}
	r.elapsed++
	return r.elapsed, true, r.publishLocked(domain.TimerEvent{Type: domain.EventTimer, Time: r.elapsed})
}

func (r *roomImpl) onlineLocked() domain.OnlineEvent {
	users := lo.Map(r.members, func(ms MemberSession, _ int) string { return ms.Meta().Username() })
	slices.Sort(users)
	return domain.OnlineEvent{Type: domain.EventOnline, Count: len(r.members), Users: users}
}

func (r *roomImpl) leaderboardLocked() domain.LeaderboardEvent {
	return domain.LeaderboardEvent{Type: domain.EventLeaderboard, Data: domain.Leaderboard(r.scores)}
}

func (r *roomImpl) questionLocked() (domain.QuestionEvent, bool) {
	if len(r.questions) == 0 {
		return domain.QuestionEvent{}, false
	}
	return domain.QuestionEvent{
		Type:    domain.EventQuestion,
		Content: r.questions[r.cursor].Content,
		Index:   r.cursor + 1,
		Total:   len(r.questions),
	}, true
}

// publishLocked delivers evt to every current member. A failed send is
// recorded and the loop moves on.
func (r *roomImpl) publishLocked(evt any) PublishResult {
	res := PublishResult{}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("module", "core.room").Str("room", string(r.room.Name)).Msg("broadcast marshal")
		return res
	}
	for _, m := range r.members {
		if err := m.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	telemetry.BroadcastFrames.WithLabelValues("sent").Add(float64(res.SendTo))
	telemetry.BroadcastFrames.WithLabelValues("dropped").Add(float64(len(res.Dropped)))
	log.Debug().Str("module", "core.room").Str("room", string(r.room.Name)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
