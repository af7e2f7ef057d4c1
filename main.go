package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/harborview/maya/internal/analyzer"
	"github.com/harborview/maya/internal/config"
	"github.com/harborview/maya/internal/core"
	"github.com/harborview/maya/internal/knowledge"
	"github.com/harborview/maya/internal/logger"
	"github.com/harborview/maya/internal/memory"
	"github.com/harborview/maya/internal/nodes"
	"github.com/harborview/maya/internal/provider"
	"github.com/harborview/maya/internal/responder"
	"github.com/harborview/maya/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "maya: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is a local-dev convenience, not a requirement.
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session memory: Redis when configured, in-process LRU otherwise.
	var store memory.Store
	var turns memory.TurnLog
	if cfg.Redis.URL != "" {
		redisStore, err := memory.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		store, turns = redisStore, redisStore
		log.Info().Str("url", cfg.Redis.URL).Msg("session memory backed by redis")
	} else {
		localStore := memory.NewLocalStore(cfg.Memory.LocalSessions, cfg.ActiveHorizon())
		store, turns = localStore, localStore
		log.Info().Int("sessions", cfg.Memory.LocalSessions).Msg("session memory backed by local LRU")
	}

	memoryMgr := memory.NewManager(store, turns, cfg.ActiveHorizon())
	memoryMgr.StartSweeper(ctx, cfg.SweepInterval(), cfg.Retention())

	kb, err := knowledge.NewStore(cfg.Knowledge.DataDir)
	if err != nil {
		return fmt.Errorf("opening knowledge base: %w", err)
	}
	feedback := knowledge.NewFeedbackLog(cfg.Knowledge.DataDir)
	reinforcer, err := knowledge.NewReinforcer(kb, feedback, cfg.Knowledge.Workers)
	if err != nil {
		return fmt.Errorf("starting reinforcement workers: %w", err)
	}
	defer reinforcer.Close()

	var rooms provider.RoomDataProvider
	if cfg.Provider.BaseURL != "" {
		rooms = provider.NewHTTPProvider(cfg.Provider.BaseURL, cfg.ProviderTimeout(), cfg.ProviderCacheTTL())
		log.Info().Str("base_url", cfg.Provider.BaseURL).Msg("room data from live provider")
	} else {
		rooms = provider.NewStaticProvider()
		log.Info().Msg("room data from static fallback set")
	}

	personality := responder.Personality{
		Mood:   cfg.Personality.Mood,
		Energy: cfg.Personality.Energy,
	}
	generator := responder.New(nil, personality)

	engine := core.NewEngine(cfg.Flow())
	for _, node := range []core.Node{
		nodes.NewAnalyzeNode(analyzer.New()),
		nodes.NewContextNode(memoryMgr),
		nodes.NewRespondNode(generator, kb, rooms, cfg.ProviderTimeout()),
		nodes.NewLearnNode(memoryMgr, reinforcer),
	} {
		if err := engine.AddNode(node); err != nil {
			return fmt.Errorf("wiring node %s: %w", node.GetName(), err)
		}
	}

	srv := server.New(engine, reinforcer, rooms, cfg.RequestTimeout())

	log.Info().Str("addr", cfg.Server.Addr).Msg("maya is listening")
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	log.Info().Msg("maya shut down cleanly")
	return nil
}
