package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/CodeRoom/internal/adapters/signal"
	"github.com/dkeye/CodeRoom/internal/app"
	"github.com/dkeye/CodeRoom/internal/config"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/store"
	handlers "github.com/dkeye/CodeRoom/internal/transport/http"
)

func makeRouter(t *testing.T) http.Handler {
	t.Helper()
	rooms := core.NewRoomManager(0)
	sessions := app.NewRegistry()
	mem := store.NewMemoryStore()
	orch := &app.Orchestrator{Registry: sessions, Rooms: rooms, Policy: app.KickSlowPolicy{}}
	cfg := &config.Config{Mode: "release", Secret: "test-secret", StaticPath: t.TempDir()}
	api := &handlers.Handlers{Rooms: rooms, Sessions: sessions, Problems: mem, Scores: mem}
	return SetupRouter(context.Background(), cfg, signal.NewSignalWSController(orch, signal.Config{}), api)
}

func TestRouter(t *testing.T) {
	r := makeRouter(t)

	tests := map[string]struct {
		path string
		want int
	}{
		"health":          {path: "/healthz", want: http.StatusOK},
		"metrics":         {path: "/metrics", want: http.StatusOK},
		"rooms":           {path: "/api/rooms", want: http.StatusOK},
		"leaderboard":     {path: "/api/leaderboard", want: http.StatusOK},
		"pprof off":       {path: "/debug/pprof/", want: http.StatusNotFound},
		"ws needs params": {path: "/ws/r1", want: http.StatusNotFound},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestClientTokenCookie(t *testing.T) {
	r := makeRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "CodeRoomSessions", cookies[0].Name)

	// A returning browser keeps its session and is not issued a new one.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Result().Cookies())
}

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		origins     []string
		origin      string
		wantOrigin  string
		credentials string
	}{
		"wildcard never allows credentials": {
			origins:    []string{"*"},
			origin:     "https://evil.example",
			wantOrigin: "*",
		},
		"listed origin gets credentials": {
			origins:     []string{"https://coderoom.example"},
			origin:      "https://coderoom.example",
			wantOrigin:  "https://coderoom.example",
			credentials: "true",
		},
		"unlisted origin gets nothing": {
			origins: []string{"https://coderoom.example"},
			origin:  "https://evil.example",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			h := CORS(tc.origins).Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodOptions, "/api/run", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tc.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.credentials, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}
