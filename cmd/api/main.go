package main

import (
	"context"
	"github.com/asynkron/protoactor-go/actor"
	zLog "github.com/rs/zerolog/log"
	"go-ensemble/internal/agents/dispatcher"
	"go-ensemble/internal/agents/handler"
	"go-ensemble/internal/api"
	"go-ensemble/internal/config"
	"go-ensemble/internal/ensemble"
	"go-ensemble/pkg/logger"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	log.Println("starting server")
	cfg, err := config.Load(os.Getenv(config.PathEnv))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	err = logger.NewGlobal(cfg.System.LogLevel, cfg.System.PrettyLogs)
	if err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	system := actor.NewActorSystem().Root
	h := handler.New(nil)
	d := dispatcher.New(system, h)
	orch, err := ensemble.New(cfg.ReviewerAgent(), cfg.WorkerAgents(), d, h)
	if err != nil {
		zLog.Fatal().Err(err).Msg("failed to build ensemble")
	}

	zLog.Info().
		Str(logger.AgentNameField, cfg.Reviewer.Name).
		Str(logger.ModelField, cfg.Reviewer.Model).
		Msg("reviewer configured")
	for _, w := range cfg.Workers {
		zLog.Info().
			Str(logger.AgentNameField, w.Name).
			Str(logger.ModelField, w.Model).
			Int("timeout_s", w.Timeout).
			Msg("worker configured")
	}

	app := api.New(cfg.Addr(), orch, cfg.Roster())

	go func() {
		err := app.Start()
		if err != nil {
			zLog.Panic().Err(err).Msg("server crash")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stop()
	zLog.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		zLog.Panic().Err(err).Msg("server forced to shutdown")
	}

	zLog.Info().Msg("server exiting")
}
