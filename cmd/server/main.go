// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/registry.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"steward/internal/events"
	"steward/internal/jwtauth"
	"steward/internal/platform/config"
	"steward/internal/platform/httpserver"
	"steward/internal/platform/logger"
	platformredis "steward/internal/platform/redis"
	"steward/internal/registry/cache"
	"steward/internal/registry/handler"
	"steward/internal/registry/metrics"
	"steward/internal/registry/service"
	"steward/internal/registry/store"
	httptransport "steward/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	regMetrics := metrics.New()

	var st store.Store
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := store.EnsureSchema(ctx, db, cfg.Administrator); err != nil {
			log.Error("ensure schema", "error", err)
			os.Exit(1)
		}
		st = store.NewPostgres(db)
	} else {
		log.Warn("no postgres URL configured, registry state is in-memory only")
		st = store.NewInMemory(cfg.Administrator)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(regMetrics),
	}

	var kafkaPublisher *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.EventTopic, log)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		kafkaPublisher = p
		opts = append(opts, service.WithEventPublisher(p))
	} else {
		opts = append(opts, service.WithEventPublisher(events.NewLogPublisher(log)))
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithMetadataCache(
			cache.NewRedis(redisClient.Client, config.MetadataCacheTTL, log, regMetrics)))
	}

	registry := service.New(st, opts...)
	jwtService := jwtauth.NewService(cfg.JWTSigningKey, "steward")
	router := httptransport.NewRouter(handler.New(registry, log), jwtService, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting steward registry", "addr", cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if kafkaPublisher != nil {
			if err := kafkaPublisher.Close(shutdownCtx); err != nil {
				log.Warn("kafka shutdown", "error", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
