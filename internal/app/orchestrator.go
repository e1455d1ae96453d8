package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/judge"
	"github.com/dkeye/CodeRoom/internal/store"
	"github.com/dkeye/CodeRoom/internal/telemetry"
)

const (
	DefaultAward = 10

	archiveTimeout = 2 * time.Second
)

// Orchestrator is the session controller: it turns connection lifecycle
// and inbound commands into room operations.
type Orchestrator struct {
	Registry *Registry
	Rooms    core.RoomManager
	Policy   Policy
	Judge    *judge.Judge
	Problems store.ProblemStore
	Scores   store.ScoreArchive
	// Award is added to a submitter's score on a pass.
	Award int
}

// Join runs the create-or-join protocol for a new connection. On success
// the connection is registered and the room has been re-synced.
func (o *Orchestrator) Join(sid core.SessionID, req core.JoinRequest, user *domain.User, conn core.SignalConnection, cancel context.CancelFunc) (core.RoomService, error) {
	sess := core.NewMemberSession(sid, domain.NewMember(user), conn)
	room, res, err := o.Rooms.CreateOrJoin(req, sess)
	if err != nil {
		telemetry.JoinRejections.WithLabelValues(RejectionEvent(err)).Inc()
		log.Info().Err(err).Str("module", "app.orch").Str("sid", string(sid)).Str("room", string(req.Room)).Str("user", user.Username).Msg("join rejected")
		return nil, err
	}
	o.Registry.Bind(room, sess, cancel)
	telemetry.ConnectionsActive.Inc()
	log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("room", string(req.Room)).Str("user", user.Username).Bool("admin", sess.Meta().Admin).Msg("joined")
	o.ApplyPolicy(room, res)
	return room, nil
}

// RejectionEvent maps a join error to the event type sent before closing.
func RejectionEvent(err error) string {
	switch {
	case errors.Is(err, core.ErrWrongPassword):
		return domain.EventWrongPassword
	case errors.Is(err, core.ErrRoomFull):
		return domain.EventRoomFull
	default:
		return domain.EventRoomNotFound
	}
}

// Dispatch handles one inbound command from sid. Commands from one
// connection must be dispatched sequentially.
func (o *Orchestrator) Dispatch(ctx context.Context, sid core.SessionID, cmd domain.Inbound) {
	room, sess, ok := o.Registry.Lookup(sid)
	if !ok {
		return
	}
	username := sess.Meta().Username()

	switch cmd.Type {
	case domain.CmdChat:
		o.ApplyPolicy(room, room.Chat(username, cmd.Message))
	case domain.CmdSubmit:
		o.submit(ctx, room, username, cmd)
	case domain.CmdAddQuestion, domain.CmdNextQuestion, domain.CmdStartTimer,
		domain.CmdStopTimer, domain.CmdEndRoom, domain.CmdLoadProblem:
		if !room.IsAdmin(username) {
			log.Debug().Str("module", "app.orch").Str("sid", string(sid)).Str("user", username).Str("type", cmd.Type).Msg("admin command ignored")
			return
		}
		o.admin(ctx, room, sess, cmd)
	default:
		log.Warn().Str("module", "app.orch").Str("sid", string(sid)).Str("type", cmd.Type).Msg("unknown event")
	}
}

func (o *Orchestrator) submit(ctx context.Context, room core.RoomService, username string, cmd domain.Inbound) {
	var q *domain.Question
	if cur, ok := room.CurrentQuestion(); ok {
		q = &cur
	}
	// The run is never cut short by the connection going away.
	v := o.Judge.Grade(context.WithoutCancel(ctx), q, cmd.Code, cmd.Input)

	points := 0
	if v.Passed {
		points = o.award()
	}
	log.Info().Str("module", "app.orch").Str("room", string(room.Room().Name)).Str("user", username).Bool("passed", v.Passed).Str("reason", v.Error).Msg("submission graded")

	applied, res := room.ScoreSubmission(username, points, domain.SubmissionEvent{
		User:   username,
		Passed: v.Passed,
		Output: v.Output,
		Error:  v.Error,
	})
	o.ApplyPolicy(room, res)

	if applied && points > 0 && o.Scores != nil {
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
		defer cancel()
		if err := o.Scores.RecordAward(actx, room.Room().Name, username, points); err != nil {
			log.Warn().Err(err).Str("module", "app.orch").Str("room", string(room.Room().Name)).Str("user", username).Msg("archive award")
		}
	}
}

func (o *Orchestrator) admin(ctx context.Context, room core.RoomService, sess core.MemberSession, cmd domain.Inbound) {
	switch cmd.Type {
	case domain.CmdAddQuestion:
		o.ApplyPolicy(room, room.AddQuestion(domain.Question{Content: cmd.Content, Answer: cmd.Answer}))
	case domain.CmdNextQuestion:
		_, res := room.NextQuestion()
		o.ApplyPolicy(room, res)
	case domain.CmdStartTimer:
		room.SetTimerRunning(true)
	case domain.CmdStopTimer:
		room.SetTimerRunning(false)
	case domain.CmdEndRoom:
		o.EndRoom(room)
	case domain.CmdLoadProblem:
		o.loadProblem(ctx, room, sess, cmd.Name)
	}
}

func (o *Orchestrator) loadProblem(ctx context.Context, room core.RoomService, sess core.MemberSession, name string) {
	if o.Problems == nil {
		o.reply(sess, domain.ErrorEvent{Type: domain.EventError, Error: "problem_store_unavailable"})
		return
	}
	q, err := o.Problems.GetProblem(ctx, name)
	if errors.Is(err, store.ErrProblemNotFound) {
		o.reply(sess, domain.ErrorEvent{Type: domain.EventError, Error: "problem_not_found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Str("problem", name).Msg("load problem")
		o.reply(sess, domain.ErrorEvent{Type: domain.EventError, Error: "problem_store_unavailable"})
		return
	}
	o.ApplyPolicy(room, room.AddQuestion(q))
}

// EndRoom tears room down and closes every member connection once the
// room_ended frame has been flushed.
func (o *Orchestrator) EndRoom(room core.RoomService) bool {
	name := room.Room().Name
	members, res, ok := o.Rooms.Delete(room)
	if !ok {
		return false
	}
	log.Info().Str("module", "app.orch").Str("room", string(name)).Int("members", len(members)).Int("sent_to", res.SendTo).Msg("room ended")
	for _, m := range members {
		m.Signal().Close()
	}
	return true
}

// OnDisconnect is called exactly once when a joined connection goes away.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	room, _, ok := o.Registry.Unbind(sid)
	if !ok {
		return
	}
	telemetry.ConnectionsActive.Dec()
	survived, res := o.Rooms.Leave(room.Room().Name, sid)
	log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("room", string(room.Room().Name)).Bool("room_survived", survived).Msg("disconnected")
	o.ApplyPolicy(room, res)
}

// ApplyPolicy acts on members that could not take a frame.
func (o *Orchestrator) ApplyPolicy(room core.RoomService, res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case KickMember:
			o.kick(slow)
		case DropFrame:
		}
	}
}

func (o *Orchestrator) kick(ms core.MemberSession) {
	log.Warn().Str("module", "app.orch").Str("sid", string(ms.ID())).Str("user", ms.Meta().Username()).Msg("kicking slow member")
	o.Registry.Cancel(ms.ID())
	ms.Signal().Close()
}

func (o *Orchestrator) reply(sess core.MemberSession, evt any) {
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	_ = sess.Signal().TrySend(b)
}

func (o *Orchestrator) award() int {
	if o.Award <= 0 {
		return DefaultAward
	}
	return o.Award
}
