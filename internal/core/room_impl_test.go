package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/CodeRoom/internal/domain"
)

func newTestRoom(t *testing.T) (RoomService, *fakeConn, *fakeConn) {
	t.Helper()
	m := NewRoomManager(0)
	alice, aliceConn := newSession(t, "a", "alice")
	bob, bobConn := newSession(t, "b", "bob")
	room, _, err := m.CreateOrJoin(JoinRequest{Room: "r1", Password: "p", Admin: true}, alice)
	require.NoError(t, err)
	_, _, err = m.CreateOrJoin(JoinRequest{Room: "r1", Password: "p"}, bob)
	require.NoError(t, err)
	aliceConn.reset()
	bobConn.reset()
	return room, aliceConn, bobConn
}

func TestJoin_FullStateGoesToWholeRoom(t *testing.T) {
	t.Parallel()
	m := NewRoomManager(0)
	alice, aliceConn := newSession(t, "a", "alice")
	room, _, err := m.CreateOrJoin(JoinRequest{Room: "r1", Password: "p", Admin: true}, alice)
	require.NoError(t, err)
	room.AddQuestion(questionFixture())
	aliceConn.reset()

	bob, bobConn := newSession(t, "b", "bob")
	_, res, err := m.CreateOrJoin(JoinRequest{Room: "r1", Password: "p"}, bob)
	require.NoError(t, err)
	assert.Equal(t, 8, res.SendTo)

	for _, conn := range []*fakeConn{aliceConn, bobConn} {
		evts := conn.events(t)
		require.Len(t, evts, 4)
		assert.Equal(t, "online", evts[0]["type"])
		assert.EqualValues(t, 2, evts[0]["count"])
		assert.Equal(t, []any{"alice", "bob"}, evts[0]["users"])
		assert.Equal(t, "leaderboard", evts[1]["type"])
		assert.Equal(t, "timer", evts[2]["type"])
		assert.EqualValues(t, 0, evts[2]["time"])
		assert.Equal(t, "question", evts[3]["type"])
		assert.Equal(t, "sum two numbers", evts[3]["content"])
		assert.EqualValues(t, 1, evts[3]["index"])
		assert.EqualValues(t, 1, evts[3]["total"])
	}
}

func TestJoin_NoQuestionNoQuestionEvent(t *testing.T) {
	t.Parallel()
	m := NewRoomManager(0)
	alice, aliceConn := newSession(t, "a", "alice")
	_, _, err := m.CreateOrJoin(JoinRequest{Room: "r1", Password: "p", Admin: true}, alice)
	require.NoError(t, err)
	assert.Empty(t, aliceConn.ofType(t, "question"))
	assert.Len(t, aliceConn.events(t), 3)
}

func TestScoreSubmission(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		points int
		want   [][]any
	}{
		"pass awards submitter only": {
			points: 10,
			want:   [][]any{{"bob", float64(10)}, {"alice", float64(0)}},
		},
		"fail leaves scores unchanged": {
			points: 0,
			want:   [][]any{{"alice", float64(0)}, {"bob", float64(0)}},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			room, aliceConn, _ := newTestRoom(t)

			applied, res := room.ScoreSubmission("bob", tc.points, domain.SubmissionEvent{User: "bob", Passed: tc.points > 0, Output: "30"})
			assert.True(t, applied)
			assert.Equal(t, 4, res.SendTo)

			evts := aliceConn.events(t)
			require.Len(t, evts, 2)
			assert.Equal(t, "submission", evts[0]["type"])
			assert.Equal(t, "bob", evts[0]["user"])
			assert.Equal(t, "leaderboard", evts[1]["type"])

			got := make([][]any, 0)
			for _, e := range evts[1]["data"].([]any) {
				got = append(got, e.([]any))
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScoreSubmission_EndedRoom(t *testing.T) {
	t.Parallel()
	m := NewRoomManager(0)
	alice, aliceConn := newSession(t, "a", "alice")
	room, _, err := m.CreateOrJoin(JoinRequest{Room: "r1", Password: "p", Admin: true}, alice)
	require.NoError(t, err)
	_, _, ok := m.Delete(room)
	require.True(t, ok)
	aliceConn.reset()

	applied, res := room.ScoreSubmission("alice", 10, domain.SubmissionEvent{User: "alice", Passed: true})
	assert.False(t, applied)
	assert.Zero(t, res.SendTo)
	assert.Empty(t, aliceConn.events(t))
	assert.Equal(t, []domain.LeaderboardEntry{{Username: "alice", Score: 0}}, room.State().Leaderboard)
}

func TestScoresSurviveRejoin(t *testing.T) {
	t.Parallel()
	m := NewRoomManager(0)
	alice, _ := newSession(t, "a", "alice")
	room, _, err := m.CreateOrJoin(JoinRequest{Room: "r1", Password: "p", Admin: true}, alice)
	require.NoError(t, err)
	bob, _ := newSession(t, "b", "bob")
	_, _, err = m.CreateOrJoin(JoinRequest{Room: "r1", Password: "p"}, bob)
	require.NoError(t, err)

	room.ScoreSubmission("bob", 10, domain.SubmissionEvent{User: "bob", Passed: true})
	m.Leave("r1", bob.ID())

	st := room.State()
	assert.Equal(t, []domain.LeaderboardEntry{{Username: "bob", Score: 10}, {Username: "alice", Score: 0}}, st.Leaderboard)

	bob2, _ := newSession(t, "b2", "bob")
	_, _, err = m.CreateOrJoin(JoinRequest{Room: "r1", Password: "p"}, bob2)
	require.NoError(t, err)
	assert.Equal(t, 10, room.State().Leaderboard[0].Score)
}

func TestQuestions(t *testing.T) {
	t.Parallel()
	room, aliceConn, bobConn := newTestRoom(t)

	_, ok := room.CurrentQuestion()
	assert.False(t, ok)

	moved, res := room.NextQuestion()
	assert.False(t, moved)
	assert.Zero(t, res.SendTo)

	room.AddQuestion(domain.Question{Content: "q1", Answer: "1"})
	room.AddQuestion(domain.Question{Content: "q2", Answer: "2"})

	q, ok := room.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "q1", q.Content)

	qs := bobConn.ofType(t, "question")
	require.Len(t, qs, 2)
	assert.Equal(t, "q1", qs[1]["content"])
	assert.EqualValues(t, 2, qs[1]["total"])

	moved, _ = room.NextQuestion()
	require.True(t, moved)
	q, _ = room.CurrentQuestion()
	assert.Equal(t, "q2", q.Content)

	aliceConn.reset()
	moved, res = room.NextQuestion()
	assert.False(t, moved)
	assert.Zero(t, res.SendTo)
	assert.Empty(t, aliceConn.events(t))
	q, _ = room.CurrentQuestion()
	assert.Equal(t, "q2", q.Content)
	assert.Equal(t, 2, room.State().Current)
}

func TestTick(t *testing.T) {
	t.Parallel()
	room, aliceConn, _ := newTestRoom(t)

	_, advanced, _ := room.Tick()
	assert.False(t, advanced)

	room.SetTimerRunning(true)
	for want := 1; want <= 3; want++ {
		got, advanced, res := room.Tick()
		assert.True(t, advanced)
		assert.Equal(t, want, got)
		assert.Equal(t, 2, res.SendTo)
	}
	room.SetTimerRunning(false)
	got, advanced, _ := room.Tick()
	assert.False(t, advanced)
	assert.Equal(t, 3, got)

	timers := aliceConn.ofType(t, "timer")
	require.Len(t, timers, 3)
	for i, e := range timers {
		assert.EqualValues(t, i+1, e["time"])
	}
}

func TestBroadcast_CollectsDropped(t *testing.T) {
	t.Parallel()
	room, aliceConn, bobConn := newTestRoom(t)
	bobConn.mu.Lock()
	bobConn.fail = true
	bobConn.mu.Unlock()

	res := room.Chat("alice", "hello")
	assert.Equal(t, 1, res.SendTo)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, "bob", res.Dropped[0].Meta().Username())

	chats := aliceConn.ofType(t, "chat")
	require.Len(t, chats, 1)
	assert.Equal(t, "alice", chats[0]["user"])
	assert.Equal(t, "hello", chats[0]["message"])
}

func TestState(t *testing.T) {
	t.Parallel()
	room, _, _ := newTestRoom(t)
	room.AddQuestion(questionFixture())
	room.SetTimerRunning(true)
	room.Tick()

	st := room.State()
	assert.Equal(t, domain.RoomName("r1"), st.Name)
	assert.Equal(t, "alice", st.Admin)
	require.Len(t, st.Members, 2)
	assert.True(t, st.Members[0].Admin)
	assert.False(t, st.Members[1].Admin)
	assert.Equal(t, 1, st.Questions)
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, 1, st.Time)
	assert.True(t, st.Running)
	assert.True(t, room.IsAdmin("alice"))
	assert.False(t, room.IsAdmin("bob"))
}
