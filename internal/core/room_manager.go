package core

import (
	"cmp"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/telemetry"
)

const DefaultCapacity = 10

// RoomManagerImpl owns the name -> room map. The map lock is only held
// for lookups and (un)linking; room state is guarded by each room.
type RoomManagerImpl struct {
	mu       sync.Mutex
	rooms    map[domain.RoomName]*roomImpl
	capacity int
}

func NewRoomManager(capacity int) *RoomManagerImpl {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RoomManagerImpl{
		rooms:    make(map[domain.RoomName]*roomImpl),
		capacity: capacity,
	}
}

func (m *RoomManagerImpl) CreateOrJoin(req JoinRequest, ms MemberSession) (RoomService, PublishResult, error) {
	for {
		m.mu.Lock()
		room, ok := m.rooms[req.Room]
		if !ok {
			if !req.Admin {
				m.mu.Unlock()
				return nil, PublishResult{}, ErrRoomNotFound
			}
			room = newRoom(&domain.Room{
				Name:     req.Room,
				Admin:    ms.Meta().Username(),
				Password: req.Password,
				Capacity: m.capacity,
			})
			// Not yet visible to anyone else, but the room lock keeps
			// the first broadcast ordered against later joiners.
			room.mu.Lock()
			m.rooms[req.Room] = room
			m.mu.Unlock()
			res := room.addLocked(ms)
			room.mu.Unlock()

			telemetry.RoomsActive.Inc()
			log.Info().Str("module", "core.registry").Str("room", string(req.Room)).Str("admin", room.room.Admin).Msg("room created")
			return room, res, nil
		}
		m.mu.Unlock()

		res, err := room.join(req.Password, ms)
		if errors.Is(err, errRoomClosed) {
			// Lost a race with teardown; drop the stale entry and look again.
			m.unlink(req.Room, room)
			continue
		}
		if err != nil {
			return nil, PublishResult{}, err
		}
		return room, res, nil
	}
}

func (m *RoomManagerImpl) Leave(name domain.RoomName, sid SessionID) (bool, PublishResult) {
	m.mu.Lock()
	room, ok := m.rooms[name]
	m.mu.Unlock()
	if !ok {
		return false, PublishResult{}
	}
	empty, res := room.leave(sid)
	if empty {
		m.unlink(name, room)
		return false, res
	}
	return !room.Closed(), res
}

// Delete ends this exact room instance. A newer room registered under the
// same name is left alone.
func (m *RoomManagerImpl) Delete(svc RoomService) ([]MemberSession, PublishResult, bool) {
	room, ok := svc.(*roomImpl)
	if !ok || room == nil {
		return nil, PublishResult{}, false
	}
	members, res, ended := room.end()
	m.unlink(room.room.Name, room)
	return members, res, ended
}

// unlink removes room from the map if it is still the entry for name.
func (m *RoomManagerImpl) unlink(name domain.RoomName, room *roomImpl) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.rooms[name]; ok && cur == room {
		delete(m.rooms, name)
		telemetry.RoomsActive.Dec()
		log.Info().Str("module", "core.registry").Str("room", string(name)).Msg("room deleted")
	}
}

func (m *RoomManagerImpl) Get(name domain.RoomName) (RoomService, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[name]
	if !ok {
		return nil, false
	}
	return room, true
}

func (m *RoomManagerImpl) List() []RoomInfo {
	rooms := m.snapshot()
	out := lo.Map(rooms, func(r *roomImpl, _ int) RoomInfo {
		return RoomInfo{Name: r.room.Name, Admin: r.room.Admin, MemberCount: r.MemberCount()}
	})
	slices.SortFunc(out, func(a, b RoomInfo) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

func (m *RoomManagerImpl) Snapshot() []RoomService {
	return lo.Map(m.snapshot(), func(r *roomImpl, _ int) RoomService { return r })
}

func (m *RoomManagerImpl) snapshot() []*roomImpl {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Values(m.rooms)
}
