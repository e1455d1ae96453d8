package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/CodeRoom/internal/core"
)

const DefaultTick = time.Second

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TimerConfig struct {
	Rooms         core.RoomManager
	Tick          time.Duration
	NewTickerFunc func(d time.Duration) Ticker
	// OnPublish receives the delivery result of every timer broadcast.
	OnPublish func(room core.RoomService, res core.PublishResult)
}

// TimerDriver advances every running room timer once per tick.
type TimerDriver struct {
	rooms     core.RoomManager
	tick      time.Duration
	newTicker func(d time.Duration) Ticker
	onPublish func(room core.RoomService, res core.PublishResult)
}

func NewTimerDriver(c TimerConfig) *TimerDriver {
	d := &TimerDriver{
		rooms:     c.Rooms,
		tick:      c.Tick,
		newTicker: c.NewTickerFunc,
		onPublish: c.OnPublish,
	}
	if d.tick <= 0 {
		d.tick = DefaultTick
	}
	if d.newTicker == nil {
		d.newTicker = newTimeTicker
	}
	return d
}

// Run blocks until ctx is done.
func (d *TimerDriver) Run(ctx context.Context) error {
	t := d.newTicker(d.tick)
	defer t.Stop()
	log.Info().Str("module", "app.timer").Dur("tick", d.tick).Msg("timer driver started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.timer").Msg("timer driver stopped")
			return nil
		case <-t.C():
			d.TickOnce()
		}
	}
}

// TickOnce advances every running room in a snapshot of the registry.
func (d *TimerDriver) TickOnce() {
	for _, room := range d.rooms.Snapshot() {
		if _, advanced, res := room.Tick(); advanced && d.onPublish != nil {
			d.onPublish(room, res)
		}
	}
}

type timeTicker struct{ *time.Ticker }

func newTimeTicker(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }
