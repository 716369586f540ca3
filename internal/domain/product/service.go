// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service handles read access to the product catalog
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=12"`
	Category string `form:"category"`
	Brand    string `form:"brand"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	Search   string `form:"search"`
	Featured string `form:"featured"`
	Sort     string `form:"sort,default=createdAt"`
	Order    string `form:"order,default=desc"`
}

// ProductResponse represents a product page
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalProducts int64 `json:"totalProducts"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
}

// GetProducts retrieves active products with filtering and pagination
func (s *Service) GetProducts(ctx context.Context, req *ProductListRequest) (*ProductResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 12
	}

	query := s.db.WithContext(ctx).Model(&Product{}).Where("is_active = ?", true)

	if req.Category != "" {
		if id, err := strconv.ParseUint(req.Category, 10, 64); err == nil {
			query = query.Where("category_id = ?", id)
		} else {
			query = query.Where("category_id IN (?)",
				s.db.Model(&Category{}).Select("id").Where("slug = ?", req.Category))
		}
	}

	if req.Brand != "" {
		query = query.Where("brand = ?", req.Brand)
	}

	if req.MinPrice != "" {
		min, err := decimal.NewFromString(req.MinPrice)
		if err != nil {
			return nil, shared.NewValidationError("minPrice", "Must be a number")
		}
		query = query.Where("price >= ?", min)
	}
	if req.MaxPrice != "" {
		max, err := decimal.NewFromString(req.MaxPrice)
		if err != nil {
			return nil, shared.NewValidationError("maxPrice", "Must be a number")
		}
		query = query.Where("price <= ?", max)
	}

	if req.Search != "" {
		like := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(tags) LIKE ?",
			like, like, like, like,
		)
	}

	if req.Featured == "true" {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	err := query.
		Preload("Category").
		Order(s.buildOrderClause(req.Sort, req.Order)).
		Offset(offset).
		Limit(req.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ProductResponse{
		Products: products,
		Pagination: Pagination{
			CurrentPage:   req.Page,
			TotalPages:    totalPages,
			TotalProducts: total,
			HasNextPage:   req.Page < totalPages,
			HasPrevPage:   req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single active product by ID
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// LookupProduct resolves the live catalog entry for cart and checkout pricing
func (s *Service) LookupProduct(ctx context.Context, id uint) (*Product, error) {
	return s.GetProduct(ctx, id)
}

// GetBrands returns the distinct, non-empty brands of active products, sorted
func (s *Service) GetBrands(ctx context.Context) ([]string, error) {
	var brands []string
	err := s.db.WithContext(ctx).
		Model(&Product{}).
		Where("is_active = ? AND brand <> ''", true).
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve brands: %w", err)
	}
	return brands, nil
}

// CountActive returns the number of active products
func (s *Service) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CountAll returns the number of catalog products, active or not
func (s *Service) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CategoriesForProducts maps each known product ID to its category.
// Products that no longer exist or have no category are left out.
func (s *Service) CategoriesForProducts(ctx context.Context, productIDs []uint) (map[uint]Category, error) {
	result := make(map[uint]Category, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var products []Product
	err := s.db.WithContext(ctx).
		Unscoped().
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("id IN ?", productIDs).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load product categories: %w", err)
	}

	for _, p := range products {
		if p.Category != nil {
			result[p.ID] = *p.Category
		}
	}
	return result, nil
}

func (s *Service) buildOrderClause(sort, order string) string {
	validSortFields := map[string]string{
		"createdAt": "created_at",
		"price":     "price",
		"name":      "name",
		"sales":     "sales",
		"rating":    "rating",
	}

	column, ok := validSortFields[sort]
	if !ok {
		column = "created_at"
	}

	if order != "asc" {
		order = "desc"
	}

	return fmt.Sprintf("%s %s", column, order)
}
