package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/judge"
	"github.com/dkeye/CodeRoom/internal/mocks"
	"github.com/dkeye/CodeRoom/internal/store"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("closed")
	}
	if c.full {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) ofType(t *testing.T, typ string) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []map[string]any
	for _, f := range c.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m))
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) last(t *testing.T, typ string) map[string]any {
	t.Helper()
	evts := c.ofType(t, typ)
	require.NotEmpty(t, evts, "no %s event", typ)
	return evts[len(evts)-1]
}

type fakeTicker struct{ c chan time.Time }

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               {}

type fixture struct {
	orch     *Orchestrator
	exec     *mocks.MockExecutor
	scores   *mocks.MockScoreArchive
	problems *store.MemoryStore
	canceled map[core.SessionID]bool
	mu       sync.Mutex
}

type options func(f *fixture)

func withPolicy(p Policy) options {
	return func(f *fixture) { f.orch.Policy = p }
}

func withCapacity(n int) options {
	return func(f *fixture) { f.orch.Rooms = core.NewRoomManager(n) }
}

func makeOrchestrator(t *testing.T, opts ...options) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		exec:     mocks.NewMockExecutor(ctrl),
		scores:   mocks.NewMockScoreArchive(ctrl),
		problems: store.NewMemoryStore(),
		canceled: make(map[core.SessionID]bool),
	}
	f.orch = &Orchestrator{
		Registry: NewRegistry(),
		Rooms:    core.NewRoomManager(0),
		Policy:   KickSlowPolicy{},
		Judge:    judge.New(f.exec, time.Second),
		Problems: f.problems,
		Scores:   f.scores,
		Award:    10,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *fixture) join(t *testing.T, sid, username, room, password string, admin bool) (*fakeConn, error) {
	t.Helper()
	u, err := domain.NewUser(username)
	require.NoError(t, err)
	conn := &fakeConn{}
	id := core.SessionID(sid)
	_, err = f.orch.Join(id, core.JoinRequest{Room: domain.RoomName(room), Password: password, Admin: admin}, u, conn, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.canceled[id] = true
	})
	return conn, err
}

func (f *fixture) wasCanceled(sid string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canceled[core.SessionID(sid)]
}

func leaderboardOf(t *testing.T, evt map[string]any) [][]any {
	t.Helper()
	out := [][]any{}
	for _, e := range evt["data"].([]any) {
		out = append(out, e.([]any))
	}
	return out
}
