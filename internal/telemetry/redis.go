package telemetry

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MonitorRedis logs every dial and command at debug level.
func MonitorRedis(r redis.UniversalClient) {
	r.AddHook(redisLog{})
}

type redisLog struct{}

func (redisLog) DialHook(hook redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := hook(ctx, network, addr)
		ev := log.Debug()
		if err != nil {
			ev = log.Warn().Err(err)
		}
		ev.Str("module", "redis").Str("network", network).Str("addr", addr).Msg("dial")
		return conn, err
	}
}

func (redisLog) ProcessHook(hook redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		started := time.Now()
		err := hook(ctx, cmd)
		log.Debug().Str("module", "redis").Str("cmd", cmd.Name()).Dur("took", time.Since(started)).AnErr("err", err).Msg("process")
		return err
	}
}

func (redisLog) ProcessPipelineHook(hook redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		started := time.Now()
		err := hook(ctx, cmds)
		log.Debug().Str("module", "redis").Int("cmds", len(cmds)).Dur("took", time.Since(started)).AnErr("err", err).Msg("pipeline")
		return err
	}
}
