// Command server is the process entry point: it loads configuration,
// wires the domain repository, command handlers, live auction feed,
// and HTTP router, then serves. Adapted from the teacher's main.go
// and from original_source's main.rs wiring order (config → pool →
// migrations → repository → handlers → server).
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wallym/auctionhouse/internal/command"
	"github.com/wallym/auctionhouse/internal/config"
	"github.com/wallym/auctionhouse/internal/domain"
	"github.com/wallym/auctionhouse/internal/httpapi"
	"github.com/wallym/auctionhouse/internal/liveroom"
	"github.com/wallym/auctionhouse/internal/metrics"
	"github.com/wallym/auctionhouse/internal/migrate"
	"github.com/wallym/auctionhouse/internal/repository"
	"github.com/wallym/auctionhouse/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("config")
	if err != nil {
		panic(err)
	}

	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, TimeFormat: time.RFC3339})
	log := logger.Log
	log.Info().Str("run_env", cfg.RunEnv).Msg("starting auction service")

	pool, err := repository.NewPool(ctx, repository.PoolConfig{
		URL:               cfg.Database.URL,
		MaxConnections:    cfg.Database.MaxConnections,
		ConnectionTimeout: cfg.Database.ConnectionTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer pool.Close()

	log.Info().Msg("running database migrations")
	if err := migrate.Apply(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	repo := repository.NewPostgres(pool)
	clock := domain.SystemClock{}

	m := metrics.NewMetrics(cfg.Metrics.Namespace)

	room := liveroom.NewRoom(m)
	go room.Run()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	rateLimiter := httpapi.NewBidRateLimiter(redisClient, 10, time.Minute, m)

	handlers := &httpapi.Handlers{
		Repo:          repo,
		Clock:         clock,
		CreateAuction: command.NewCreateAuctionHandler(repo, clock),
		PlaceBid:      command.NewPlaceBidHandler(repo, clock),
		Room:          room,
		Metrics:       m,
	}

	router := httpapi.NewRouter(handlers, m, httpapi.Options{
		RateLimiter: rateLimiter,
	})

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
