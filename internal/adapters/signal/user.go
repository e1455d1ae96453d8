package signal

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
)

var ErrBadJoinParams = errors.New("bad join params")

// joinParams reads /ws/:room/:username/:password/:admin. An admin flag
// that does not parse as a bool is treated as false.
func joinParams(c *gin.Context) (core.JoinRequest, *domain.User, error) {
	name, err := domain.NormalizeRoomName(c.Param("room"))
	if err != nil {
		return core.JoinRequest{}, nil, fmt.Errorf("%w: %w", ErrBadJoinParams, err)
	}
	user, err := domain.NewUser(c.Param("username"))
	if err != nil {
		return core.JoinRequest{}, nil, fmt.Errorf("%w: %w", ErrBadJoinParams, err)
	}
	admin, _ := strconv.ParseBool(c.Param("admin"))
	return core.JoinRequest{
		Room:     name,
		Password: c.Param("password"),
		Admin:    admin,
	}, user, nil
}
