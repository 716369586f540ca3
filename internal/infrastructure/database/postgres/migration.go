// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Development admin, seeded outside production only
const (
	DevAdminEmail    = "admin@techpinik.com"
	DevAdminPassword = "Admin1234"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	config *config.Config
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// Models lists every persisted type in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&product.Category{},
		&product.Product{},
		&product.Slider{},
		&order.Order{},
		&order.OrderItem{},
		&order.StatusHistory{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("running database auto-migrations")

	for _, model := range Models() {
		m.logger.Debugf("migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates the composite indexes the order reports lean on.
// Failures are logged and counted, never fatal.
func (m *Migration) CreateIndexes() (created, failed int) {
	indexes := []string{
		// Product listing
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Category ordering
		"CREATE INDEX IF NOT EXISTS idx_categories_sort_order ON categories(sort_order, is_active)",

		// Order ledger
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(order_status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(shipping_name, shipping_phone)",

		// Order items
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// Status history
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("failed to create index")
			failed++
			continue
		}
		created++
	}

	m.logger.WithFields(logrus.Fields{"created": created, "failed": failed}).Info("indexes created")
	return created, failed
}

// SeedInitialData inserts the starter catalog and the development admin.
// Every step skips rows that already exist, so it is safe to rerun.
func (m *Migration) SeedInitialData(ctx context.Context) error {
	m.logger.Info("seeding initial data")

	if err := m.seedCategories(ctx); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedProducts(ctx); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	if err := m.seedSliders(ctx); err != nil {
		return fmt.Errorf("failed to seed sliders: %w", err)
	}

	if err := m.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	m.logger.Info("initial data seeded")
	return nil
}

func seedCategoryList() []product.Category {
	return []product.Category{
		{Name: "Electronics", Slug: "electronics", Description: "Latest gadgets and electronic devices", SortOrder: 1, IsActive: true},
		{Name: "Fashion", Slug: "fashion", Description: "Trendy clothing and accessories", SortOrder: 2, IsActive: true},
		{Name: "Home & Garden", Slug: "home-garden", Description: "Home improvement and garden essentials", SortOrder: 3, IsActive: true},
		{Name: "Sports", Slug: "sports", Description: "Sports equipment and fitness gear", SortOrder: 4, IsActive: true},
		{Name: "Books", Slug: "books", Description: "Educational and entertainment books", SortOrder: 5, IsActive: true},
		{Name: "Beauty", Slug: "beauty", Description: "Beauty and personal care products", SortOrder: 6, IsActive: true},
	}
}

func (m *Migration) seedCategories(ctx context.Context) error {
	db := m.db.WithContext(ctx)
	for _, category := range seedCategoryList() {
		var existing product.Category
		err := db.Where("slug = ?", category.Slug).First(&existing).Error
		if err == nil {
			m.logger.Debugf("category already exists: %s", category.Name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		m.logger.Debugf("created category: %s", category.Name)
	}
	return nil
}

func seedSliderList(now time.Time) []product.Slider {
	start := now.Add(-time.Minute)
	until := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}
	return []product.Slider{
		{Title: "Summer Sale", Subtitle: "Up to 50% Off", Description: "Get the best deals on electronics and gadgets",
			ButtonText: "Shop Now", ButtonLink: "/products", SortOrder: 1, IsActive: true, StartDate: &start, EndDate: until(30)},
		{Title: "New Arrivals", Subtitle: "Latest Collection", Description: "Discover our newest products and innovations",
			ButtonText: "Explore", ButtonLink: "/new-arrivals", SortOrder: 2, IsActive: true, StartDate: &start, EndDate: until(45)},
		{Title: "Winter Collection", Subtitle: "Cozy & Warm", Description: "Stay warm with our winter essentials",
			ButtonText: "Shop Winter", ButtonLink: "/category/fashion", SortOrder: 3, IsActive: true, StartDate: &start, EndDate: until(60)},
	}
}

func (m *Migration) seedSliders(ctx context.Context) error {
	db := m.db.WithContext(ctx)
	for _, slider := range seedSliderList(time.Now()) {
		var count int64
		if err := db.Model(&product.Slider{}).Where("title = ?", slider.Title).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		slider.Image = fmt.Sprintf("https://via.placeholder.com/1200x400?text=%s", url.QueryEscape(slider.Title))
		if err := db.Create(&slider).Error; err != nil {
			return err
		}
		m.logger.Debugf("created slider: %s", slider.Title)
	}
	return nil
}

type seedProduct struct {
	category string
	product  product.Product
}

func taka(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func takaPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func seedProductList() []seedProduct {
	return []seedProduct{
		{"electronics", product.Product{SKU: "IPH15PM001", Name: "iPhone 15 Pro Max", Slug: "iphone-15-pro-max", Brand: "Apple",
			Description: "Latest iPhone with advanced camera system and A17 Pro chip",
			Price:       taka(135000), ComparePrice: takaPtr(150000), Stock: 25, LowStockThreshold: 5, IsFeatured: true,
			Tags: []string{"smartphone", "apple", "premium", "camera"}}},
		{"electronics", product.Product{SKU: "SGS24U001", Name: "Samsung Galaxy S24 Ultra", Slug: "samsung-galaxy-s24-ultra", Brand: "Samsung",
			Description: "Premium Android smartphone with S Pen and advanced AI features",
			Price:       taka(125000), ComparePrice: takaPtr(140000), Stock: 18, LowStockThreshold: 5, IsFeatured: true,
			Tags: []string{"smartphone", "samsung", "android", "s-pen"}}},
		{"electronics", product.Product{SKU: "SWH1000XM5", Name: "Sony WH-1000XM5 Headphones", Slug: "sony-wh-1000xm5-headphones", Brand: "Sony",
			Description: "Industry-leading noise canceling wireless headphones",
			Price:       taka(28000), ComparePrice: takaPtr(35000), Stock: 42, LowStockThreshold: 10,
			Tags: []string{"headphones", "wireless", "noise-canceling", "premium"}}},
		{"electronics", product.Product{SKU: "MBAM3001", Name: "Apple MacBook Air M3", Slug: "apple-macbook-air-m3", Brand: "Apple",
			Description: "Thin and light laptop powered by the M3 chip",
			Price:       taka(115000), Stock: 12, LowStockThreshold: 3, IsFeatured: true,
			Tags: []string{"laptop", "apple", "macbook"}}},
		{"fashion", product.Product{SKU: "PCT001", Name: "Premium Cotton T-Shirt", Slug: "premium-cotton-t-shirt", Brand: "FashionBrand",
			Description: "Soft premium cotton t-shirt for everyday wear",
			Price:       taka(1200), Stock: 150, LowStockThreshold: 20,
			Tags: []string{"t-shirt", "cotton", "casual"}}},
		{"fashion", product.Product{SKU: "SFJ001", Name: "Slim Fit Denim Jeans", Slug: "slim-fit-denim-jeans", Brand: "DenimCo",
			Description: "Slim fit stretch denim jeans",
			Price:       taka(3500), Stock: 85, LowStockThreshold: 10, IsFeatured: true,
			Tags: []string{"jeans", "denim", "slim-fit"}}},
		{"home-garden", product.Product{SKU: "SLBS001", Name: "Smart LED Bulb Set", Slug: "smart-led-bulb-set", Brand: "SmartHome",
			Description: "App controlled color changing LED bulbs",
			Price:       taka(2500), Stock: 75, LowStockThreshold: 10,
			Tags: []string{"smart-home", "lighting", "led"}}},
		{"sports", product.Product{SKU: "PF001", Name: "Professional Football", Slug: "professional-football", Brand: "SportsPro",
			Description: "Match quality football for training and play",
			Price:       taka(1800), Stock: 60, LowStockThreshold: 10,
			Tags: []string{"football", "sports", "outdoor"}}},
		{"books", product.Product{SKU: "PFB001", Name: "Programming Fundamentals", Slug: "programming-fundamentals", Brand: "TechBooks",
			Description: "A practical introduction to programming",
			Price:       taka(1500), Stock: 95, LowStockThreshold: 10, IsFeatured: true,
			Tags: []string{"programming", "education", "book"}}},
		{"beauty", product.Product{SKU: "OFC001", Name: "Organic Face Cream", Slug: "organic-face-cream", Brand: "NaturalBeauty",
			Description: "Moisturising face cream made with organic ingredients",
			Price:       taka(2200), Stock: 48, LowStockThreshold: 8,
			Tags: []string{"skincare", "organic", "beauty"}}},
	}
}

func (m *Migration) seedProducts(ctx context.Context) error {
	db := m.db.WithContext(ctx)

	var categories []product.Category
	if err := db.Find(&categories).Error; err != nil {
		return err
	}
	bySlug := make(map[string]uint, len(categories))
	for _, c := range categories {
		bySlug[c.Slug] = c.ID
	}

	for _, seed := range seedProductList() {
		p := seed.product
		categoryID, ok := bySlug[seed.category]
		if !ok {
			return fmt.Errorf("seed category %q missing", seed.category)
		}

		var existing product.Product
		err := db.Unscoped().Where("sku = ?", p.SKU).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p.CategoryID = categoryID
		p.IsActive = true
		p.Images = []string{fmt.Sprintf("https://via.placeholder.com/600x600?text=%s", p.SKU)}
		if err := db.Create(&p).Error; err != nil {
			m.logger.WithError(err).WithField("sku", p.SKU).Warn("failed to create seed product")
			continue
		}
		m.logger.Debugf("created product: %s", p.Name)
	}
	return nil
}

func (m *Migration) seedAdminUser(ctx context.Context) error {
	svc := user.NewService(m.db, m.config, m.logger)
	admin, created, err := svc.EnsureAdmin(ctx, user.CreateAdminRequest{
		Email:    DevAdminEmail,
		Password: DevAdminPassword,
		Name:     "Admin",
	})
	if err != nil {
		return err
	}
	if created {
		m.logger.WithField("email", admin.Email).Info("created development admin")
	}
	return nil
}
