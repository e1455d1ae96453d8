package signal

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CodeRoom/internal/app"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
)

// HandleSignal upgrades the request and runs the join protocol. A rejected
// join gets exactly one typed event before the socket is closed.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	req, user, paramErr := joinParams(c)

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", c.GetString("client_token")).Str("room", c.Param("room")).Msg("new WS connection")

	conn := newWsSignalConn(ws, ctl.cfg.SendBuffer)
	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, cancel, sid, conn)

	if paramErr != nil {
		log.Info().Err(paramErr).Str("module", "signal").Str("sid", string(sid)).Msg("bad join params")
		if errors.Is(paramErr, domain.ErrInvalidUsername) {
			ctl.sendJSON(conn, domain.ErrorEvent{Type: domain.EventError, Error: "invalid_username"})
			conn.Close()
			return
		}
		ctl.reject(conn, domain.EventRoomNotFound)
		return
	}

	if _, err := ctl.Orch.Join(sid, req, user, conn, cancel); err != nil {
		ctl.reject(conn, app.RejectionEvent(err))
		return
	}
	go ctl.readPump(ctx, sid, conn)
}
