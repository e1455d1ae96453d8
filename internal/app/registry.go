package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/CodeRoom/internal/core"
)

type sessionEntry struct {
	Room    core.RoomService
	Session core.MemberSession
	Cancel  context.CancelFunc
}

// Registry tracks every joined connection and the room it joined.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

func (r *Registry) Bind(room core.RoomService, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = &sessionEntry{
		Room:    room,
		Session: sess,
		Cancel:  cancel,
	}
	log.Debug().Str("module", "app.registry").Str("sid", string(sess.ID())).Str("room", string(room.Room().Name)).Msg("bound session")
}

// Unbind forgets sid and returns what it was bound to.
func (r *Registry) Unbind(sid core.SessionID) (core.RoomService, core.MemberSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, nil, false
	}
	delete(r.sessions, sid)
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbound session")
	return e.Room, e.Session, true
}

func (r *Registry) Lookup(sid core.SessionID) (core.RoomService, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, nil, false
	}
	return e.Room, e.Session, true
}

// Cancel stops the connection's pumps without waiting for queued frames.
func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
