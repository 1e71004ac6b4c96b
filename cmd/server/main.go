package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/oggyb/muzz-dating/internal/app"
	"github.com/oggyb/muzz-dating/internal/cache"
	"github.com/oggyb/muzz-dating/internal/config"
	"github.com/oggyb/muzz-dating/internal/db"
	"github.com/oggyb/muzz-dating/internal/logger"
	"github.com/oggyb/muzz-dating/internal/server"
	"github.com/oggyb/muzz-dating/internal/service/conversation"
	"github.com/oggyb/muzz-dating/internal/service/matching"
	"github.com/oggyb/muzz-dating/internal/service/profile"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}

	appCtx := app.New(database, redisCache, log)

	registrars := []server.Registrar{
		profile.NewRegistrar(appCtx),
		matching.NewRegistrar(appCtx),
		conversation.NewRegistrar(appCtx),
	}

	if cfg.IsDevelopment() {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		httpLog := logger.With("transport", "http")
		httpLog.Info("starting HTTP server", "addr", cfg.HTTP.Host+":"+cfg.HTTP.Port)
		handler := server.NewHTTPHandler(cfg, httpLog, appCtx.Store, registrars...)
		if err := server.StartHTTPServer(ctx, cfg, handler); err != nil {
			httpLog.Error("http server stopped", "err", err)
			stop()
		}
	}()

	go func() {
		defer wg.Done()
		grpcLog := logger.With("transport", "grpc")
		grpcLog.Info("starting gRPC server", "addr", cfg.GRPC.Host+":"+cfg.GRPC.Port)
		if err := server.StartGRPCServer(ctx, cfg, grpcLog, appCtx.Store.Ping, registrars...); err != nil {
			grpcLog.Error("grpc server stopped", "err", err)
			stop()
		}
	}()

	wg.Wait()
	log.Info("shutdown complete")
}
