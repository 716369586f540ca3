// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/cart"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/infrastructure/database/postgres"
	"github.com/mrokonuzzaan040/tech-pinik/internal/infrastructure/database/redis"
	"github.com/mrokonuzzaan040/tech-pinik/internal/interfaces/http"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/logger"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	db, err := postgres.NewConnection(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db.GetDB(), cfg, appLogger)
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	if _, failed := migration.CreateIndexes(); failed > 0 {
		log.Printf("Warning: %d indexes could not be created", failed)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if !cfg.IsProduction() {
		if err := migration.SeedInitialData(ctx); err != nil {
			log.Printf("Warning: Data seeding failed: %v", err)
		}
	}

	m := metrics.New()
	carts := cart.NewService(
		cart.NewRedisStorage(redisClient.GetClient(), cfg.Cart.SessionTTL),
		product.NewService(db.GetDB(), cfg),
		cfg, appLogger, m,
	)
	go carts.Run(ctx)

	log.Println("✅ All systems operational!")

	server := http.NewServer(cfg, appLogger, m, db.GetDB(), redisClient.GetClient(), carts)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}
	stop()

	log.Println("✅ Server shutdown completed")
}
