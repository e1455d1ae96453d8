package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CodeRoom/internal/app"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/judge"
	"github.com/dkeye/CodeRoom/internal/store"
)

const defaultLeaderboardLimit = 10

// Handlers are the REST passthroughs next to the WebSocket route.
type Handlers struct {
	Rooms    core.RoomManager
	Sessions *app.Registry
	Judge    *judge.Judge
	Problems store.ProblemStore
	Scores   store.ScoreArchive
}

type RunRequest struct {
	Code  string `json:"code" binding:"required"`
	Input string `json:"input"`
}

type RunResponse struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

type ProblemRequest struct {
	Content string `json:"content" binding:"required"`
	Answer  string `json:"answer" binding:"required"`
}

func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	api.POST("/run", h.Run)
	api.GET("/problems", h.ListProblems)
	api.GET("/problems/:name", h.GetProblem)
	api.PUT("/problems/:name", h.PutProblem)
	api.GET("/rooms", h.ListRooms)
	api.GET("/rooms/:name", h.GetRoom)
	api.GET("/leaderboard", h.Leaderboard)
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"rooms":       len(h.Rooms.List()),
		"connections": h.Sessions.Count(),
	})
}

// Run executes code with no room and no scoring.
func (h *Handlers) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid code"})
		return
	}
	res, err := h.Judge.Run(c.Request.Context(), req.Code, req.Input)
	switch {
	case errors.Is(err, judge.ErrTimeout):
		c.JSON(http.StatusOK, RunResponse{Output: res.Stdout, Error: judge.ReasonTimeout})
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Msg("run code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": judge.ReasonExecError})
	case res.ExitCode != 0:
		c.JSON(http.StatusOK, RunResponse{Output: res.Stdout, Error: strings.TrimSpace(res.Stderr)})
	default:
		c.JSON(http.StatusOK, RunResponse{Output: res.Stdout})
	}
}

func (h *Handlers) ListProblems(c *gin.Context) {
	names, err := h.Problems.ListProblems(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list problems")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "problem store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"problems": names})
}

func (h *Handlers) GetProblem(c *gin.Context) {
	name := c.Param("name")
	q, err := h.Problems.GetProblem(c.Request.Context(), name)
	if errors.Is(err, store.ErrProblemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "problem not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("problem", name).Msg("get problem")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "problem store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "content": q.Content, "answer": q.Answer})
}

func (h *Handlers) PutProblem(c *gin.Context) {
	var req ProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content and answer are required"})
		return
	}
	name := c.Param("name")
	err := h.Problems.PutProblem(c.Request.Context(), name, domain.Question{Content: req.Content, Answer: req.Answer})
	if errors.Is(err, store.ErrBadProblem) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("problem", name).Msg("put problem")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "problem store unavailable"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Rooms.List()})
}

func (h *Handlers) GetRoom(c *gin.Context) {
	name, err := domain.NormalizeRoomName(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, ok := h.Rooms.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, room.State())
}

// Leaderboard serves the cross-room archive, not a live room.
func (h *Handlers) Leaderboard(c *gin.Context) {
	limit := defaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	entries, err := h.Scores.Top(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("leaderboard")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "score archive unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
