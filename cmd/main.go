package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/souravsouru7/barbez/internal/app/gateway"
	"github.com/souravsouru7/barbez/internal/app/registry"
	"github.com/souravsouru7/barbez/internal/app/server"
	"github.com/souravsouru7/barbez/internal/config"
	"github.com/souravsouru7/barbez/internal/core/services"
	"github.com/souravsouru7/barbez/internal/platform/logger"
	"github.com/souravsouru7/barbez/internal/platform/telemetry"
	"github.com/souravsouru7/barbez/internal/plugins/postgres"
	redisPlugin "github.com/souravsouru7/barbez/internal/plugins/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		if otelShutdown == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	pdb, err := postgres.New(ctx, *cfg.Postgres)
	if err != nil {
		log.Error("postgres connection failed", "err", err)
		return
	}
	defer pdb.Close()
	log.Info("postgres connected")

	rdb, err := redisPlugin.NewRedisClient(ctx, *cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL, "err", err)
		return
	}
	defer rdb.Close()
	log.Info("redis connected")

	// Adapters
	roomRepo := postgres.NewChatRoomRepo(pdb)
	msgRepo := postgres.NewMessageRepo(pdb)
	presStore := redisPlugin.NewRedisPresenceStore(rdb)

	// Core: one registry instance for the whole process, passed by handle.
	reg := registry.NewRegistry()
	gw := gateway.NewGateway(log, reg, presStore)

	txManager := services.NewTxManager(pdb)
	chatSvc := services.NewChatService(log, roomRepo, msgRepo, gw, txManager)
	tokenSvc := services.NewTokenService(cfg.SecretToken)

	srv := server.NewServer(log, cfg.Service.Name, cfg.Service.Addr, chatSvc, presStore, tokenSvc, gw)
	if err := srv.Start(ctx); err != nil {
		log.Error("server stopped", "err", err)
	}
}
