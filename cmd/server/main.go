package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/storage/redis/v3"

	"densitydesk/internal/analysis"
	"densitydesk/internal/config"
	"densitydesk/internal/db"
	"densitydesk/internal/handlers"
	"densitydesk/internal/inflight"
	"densitydesk/internal/jobs"
	"densitydesk/internal/metrics"
	"densitydesk/internal/server"
	"densitydesk/internal/state"
	"densitydesk/internal/validation"
)

// redisPinger lets /readyz check the Redis backend.
type redisPinger struct {
	storage *redis.Storage
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.storage.Conn().Ping(ctx).Err()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	yamlCfg.Apply(cfg)

	if ok, msg := validation.ValidateURL(cfg.APIBaseURL()); !ok {
		log.Fatalf("Invalid remote API base URL %q: %s", cfg.APIBaseURL(), msg)
	}

	// State backend
	var (
		store   state.Store
		counter metrics.StateCounter
		backend handlers.Pinger
	)

	switch cfg.StateBackend {
	case config.BackendPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Migrations completed successfully")

		pgStore := state.NewPostgresStore(database)
		store, counter, backend = pgStore, pgStore, database

		purger := jobs.NewStatePurger(database, cfg.StateTTL, time.Hour)
		go purger.Start(ctx)

	case config.BackendRedis:
		storage := redis.New(redis.Config{URL: cfg.RedisURL})
		defer storage.Close()

		store = state.NewKVStore(storage, cfg.StateTTL)
		backend = redisPinger{storage: storage}

	case config.BackendMemory:
		memStore := state.NewMemoryStore()
		store, counter = memStore, memStore
		log.Println("Using in-memory state; states are lost on restart")

	default:
		log.Fatalf("Unknown STATE_BACKEND %q (want memory, redis or postgres)", cfg.StateBackend)
	}

	metrics.Init(counter)

	// Remote functions
	log.Printf("Remote functions at %s", cfg.APIBaseURL())
	client := analysis.New(cfg.Endpoints(), analysis.WithObserver(metrics.ObserveRemoteCall))

	var prober *jobs.EndpointProber
	if cfg.ProbeInterval > 0 {
		prober = jobs.NewEndpointProber(cfg.Endpoints(), cfg.ProbeInterval)
		go prober.Start(ctx)
	}

	srv := server.New(cfg, server.Options{})
	srv.RegisterRoutes(server.Deps{
		State:   state.NewDispatcher(store),
		Client:  client,
		Flights: inflight.New(),
		Backend: backend,
		Prober:  prober,
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
