// cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/checkout"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/infrastructure/database/postgres"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/logger"
	"github.com/shopspring/decimal"
)

func main() {
	count := flag.Int("orders", 200, "number of demo orders to generate")
	days := flag.Int("days", 180, "spread orders over this many past days")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "faker seed, fix it for a repeatable ledger")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to generate demo orders in production")
	}

	appLogger := logger.New(cfg)

	db, err := postgres.NewConnection(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	migration := postgres.NewMigration(db.GetDB(), cfg, appLogger)
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.SeedInitialData(ctx); err != nil {
		log.Fatalf("Data seeding failed: %v", err)
	}

	var catalog []product.Product
	if err := db.GetDB().WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&catalog).Error; err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	pricing := checkout.Pricing{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.Commerce.FreeShippingThreshold),
		FlatShippingFee:       decimal.NewFromFloat(cfg.Commerce.FlatShippingFee),
	}

	gen := NewLedgerGenerator(order.NewRepository(db.GetDB()), catalog, pricing, cfg.Commerce.OrderNumberPrefix, *seed, appLogger)

	log.Printf("🌱 Generating %d demo orders over %d days (seed %d)", *count, *days, *seed)

	written, err := gen.Generate(ctx, *count, *days)
	if err != nil {
		log.Fatalf("Demo ledger stopped after %d orders: %v", written, err)
	}

	log.Printf("✅ Wrote %d demo orders", written)
}
