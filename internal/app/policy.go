package app

import "github.com/dkeye/CodeRoom/internal/core"

// BackpressureAction is what happens to a member whose send buffer
// overflowed during a broadcast.
type BackpressureAction int

const (
	// DropFrame loses the frame and keeps the member.
	DropFrame BackpressureAction = iota
	// KickMember closes the member's connection.
	KickMember
)

type Policy interface {
	OnBackPressure(room core.RoomService, member core.MemberSession) BackpressureAction
}

// KickSlowPolicy disconnects any member that cannot keep up.
type KickSlowPolicy struct{}

func (KickSlowPolicy) OnBackPressure(core.RoomService, core.MemberSession) BackpressureAction {
	return KickMember
}

// TolerantPolicy never kicks.
type TolerantPolicy struct{}

func (TolerantPolicy) OnBackPressure(core.RoomService, core.MemberSession) BackpressureAction {
	return DropFrame
}
