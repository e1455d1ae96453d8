package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/CodeRoom/internal/adapters/http"
	wssignal "github.com/dkeye/CodeRoom/internal/adapters/signal"
	"github.com/dkeye/CodeRoom/internal/app"
	"github.com/dkeye/CodeRoom/internal/config"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/judge"
	"github.com/dkeye/CodeRoom/internal/store"
	"github.com/dkeye/CodeRoom/internal/telemetry"
	handlers "github.com/dkeye/CodeRoom/internal/transport/http"
)

type stores interface {
	store.ProblemStore
	store.ScoreArchive
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	st, closeStore, err := openStores(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open stores")
	}
	defer closeStore()

	exec := judge.NewProcessExecutor(judge.ProcessConfig{
		Interpreter:   cfg.Exec.Interpreter,
		SourceName:    cfg.Exec.SourceName,
		WorkDir:       cfg.Exec.WorkDir,
		MaxConcurrent: cfg.Exec.MaxConcurrent,
		MaxOutput:     cfg.Exec.MaxOutput,
	})
	grader := judge.New(exec, cfg.Exec.Timeout)

	rooms := core.NewRoomManager(cfg.Room.Capacity)
	reg := app.NewRegistry()
	orch := &app.Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Policy:   app.KickSlowPolicy{},
		Judge:    grader,
		Problems: st,
		Scores:   st,
		Award:    cfg.Room.Award,
	}
	timer := app.NewTimerDriver(app.TimerConfig{
		Rooms:     rooms,
		Tick:      cfg.Timer.Tick,
		OnPublish: orch.ApplyPolicy,
	})

	ctl := wssignal.NewSignalWSController(orch, wssignal.Config{
		ReadLimit:      cfg.ReadLimit,
		PingPeriod:     cfg.PingPeriod,
		SendBuffer:     cfg.SendBuffer,
		RateLimit:      cfg.RateLimit.Messages,
		RateInterval:   cfg.RateLimit.Interval,
		AllowedOrigins: cfg.CORSAllow,
	})
	api := &handlers.Handlers{
		Rooms:    rooms,
		Sessions: reg,
		Judge:    grader,
		Problems: st,
		Scores:   st,
	}

	r := router.SetupRouter(ctx, cfg, ctl, api)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.CORS(cfg.CORSAllow).Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("CodeRoom server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return timer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("Server exited gracefully")
}

func setupLogger(cfg *config.Config) {
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// openStores uses Redis when an address is configured and memory otherwise.
func openStores(ctx context.Context, c config.RedisConfig) (stores, func(), error) {
	if c.Addr == "" {
		log.Warn().Str("module", "store").Msg("redis.addr not set, problems and scores are kept in memory")
		return store.NewMemoryStore(), func() {}, nil
	}

	rc := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{c.Addr},
		Password: c.Password,
		DB:       c.DB,
	})
	telemetry.MonitorRedis(rc)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", c.Addr, err)
	}
	log.Info().Str("module", "store").Str("addr", c.Addr).Msg("connected to redis")

	return store.NewRedisStore(store.RedisConfig{Redis: rc, Prefix: c.Prefix}), func() { _ = rc.Close() }, nil
}
