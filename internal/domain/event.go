package domain

// Outbound event types sent to room members.
const (
	EventRoomNotFound  = "room_not_found"
	EventWrongPassword = "wrong_password"
	EventRoomFull      = "room_full"
	EventOnline        = "online"
	EventChat          = "chat"
	EventLeaderboard   = "leaderboard"
	EventTimer         = "timer"
	EventQuestion      = "question"
	EventSubmission    = "submission"
	EventRoomEnded     = "room_ended"
	EventPong          = "pong"
	EventError         = "error"
)

// Inbound event types sent by clients.
const (
	CmdChat         = "chat"
	CmdSubmit       = "submit"
	CmdAddQuestion  = "add_question"
	CmdNextQuestion = "next_question"
	CmdStartTimer   = "start_timer"
	CmdStopTimer    = "stop_timer"
	CmdEndRoom      = "end_room"
	CmdLoadProblem  = "load_problem"
	CmdPing         = "ping"
)

type SimpleEvent struct {
	Type string `json:"type"`
}

type OnlineEvent struct {
	Type  string   `json:"type"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

type ChatEvent struct {
	Type    string `json:"type"`
	User    string `json:"user"`
	Message string `json:"message"`
}

type LeaderboardEvent struct {
	Type string             `json:"type"`
	Data []LeaderboardEntry `json:"data"`
}

type TimerEvent struct {
	Type string `json:"type"`
	Time int    `json:"time"`
}

// QuestionEvent carries a 1-based index.
type QuestionEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
}

type SubmissionEvent struct {
	Type   string `json:"type"`
	User   string `json:"user"`
	Passed bool   `json:"passed"`
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Inbound is the union of every client command payload; Type selects
// which fields matter.
type Inbound struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Input   string `json:"input,omitempty"`
	Content string `json:"content,omitempty"`
	Answer  string `json:"answer,omitempty"`
	Name    string `json:"name,omitempty"`
}
