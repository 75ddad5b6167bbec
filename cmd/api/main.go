package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"medfinder/internal/config"
	"medfinder/internal/database"
	"medfinder/internal/events"
	"medfinder/internal/logger"
	"medfinder/internal/repository"
	"medfinder/internal/repository/memory"
	"medfinder/internal/server"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	done <- true
}

// openStore selects the record store named by cfg.Store.Driver
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger, deps *server.Dependencies) error {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		deps.Pharmacies = store.Pharmacies()
		deps.Medicines = store.Medicines()
		log.Warn("Using in-memory store, data is lost on restart")
		return nil

	case config.StoreDriverPostgres:
		dbService, err := database.New(ctx, cfg.Database)
		if err != nil {
			return err
		}
		log.Info("Database health check", zap.Any("health", dbService.Health(ctx)))

		if err := database.RunMigrations(dbService.DB(), cfg.Store.MigrationsDir, log); err != nil {
			dbService.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database migrations completed successfully")

		deps.Pharmacies = repository.NewPharmacyRepository(dbService.X())
		deps.Medicines = repository.NewMedicineRepository(dbService.X())
		deps.Closers = append(deps.Closers, dbService)
		return nil

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func main() {
	// A missing .env file is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting medicine directory API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
	)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.JWT.Secret == "" {
		log.Warn("JWT_SECRET is empty, owner routes reject every token")
	}

	ctx := context.Background()
	deps := server.Dependencies{Publisher: events.NopPublisher{}}

	if err := openStore(ctx, cfg, log, &deps); err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}

	if cfg.RabbitMQ.URL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			log.Error("Inventory events disabled", zap.Error(err))
		} else {
			log.Info("Publishing inventory events", zap.String("queue", events.QueueName))
			deps.Publisher = publisher
			deps.Closers = append(deps.Closers, publisher)
		}
	}

	if cfg.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, search rate limiting fails open", zap.Error(err))
		}
		deps.Redis = redisClient
		deps.Closers = append(deps.Closers, redisClient)
	}

	srv := server.NewServer(cfg, log, deps)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
