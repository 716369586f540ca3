// internal/domain/product/category_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"gorm.io/gorm"
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryUpdateRequest represents category update data
type CategoryUpdateRequest struct {
	Name        string  `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Icon        *string `json:"icon"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

// GetCategories retrieves active categories ordered for display
func (s *CategoryService) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category

	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}

	return categories, nil
}

// GetCategory retrieves a single category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*Category, error) {
	var category Category
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&category)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", result.Error)
	}

	return &category, nil
}

// UpdateCategory updates an existing category. Slugs stay unique.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, req *CategoryUpdateRequest) (*Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, shared.NewValidationError("name", "Name is required")
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name": strings.TrimSpace(req.Name),
	}

	if req.Slug != nil && *req.Slug != "" && *req.Slug != category.Slug {
		slug := s.generateSlug(*req.Slug)

		var count int64
		if err := s.db.WithContext(ctx).Model(&Category{}).
			Where("slug = ? AND id <> ?", slug, id).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
		updates["slug"] = slug
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category that no product references
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	var productCount int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if productCount > 0 {
		return ErrCategoryInUse
	}

	if err := s.db.WithContext(ctx).Delete(category).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func (s *CategoryService) generateSlug(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
