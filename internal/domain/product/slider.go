// internal/domain/product/slider.go
package product

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Slider is a storefront hero banner shown during its schedule
type Slider struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null;size:100" json:"title"`
	Subtitle    string     `gorm:"size:150" json:"subtitle,omitempty"`
	Description string     `gorm:"size:300" json:"description,omitempty"`
	Image       string     `gorm:"not null;size:500" json:"image"`
	MobileImage string     `gorm:"size:500" json:"mobileImage,omitempty"`
	ButtonText  string     `gorm:"size:50" json:"buttonText,omitempty"`
	ButtonLink  string     `gorm:"size:500" json:"buttonLink,omitempty"`
	IsActive    bool       `gorm:"default:true;index:idx_sliders_active_order,priority:1" json:"isActive"`
	SortOrder   int        `gorm:"default:0;index:idx_sliders_active_order,priority:2" json:"sortOrder"`
	StartDate   *time.Time `gorm:"index" json:"startDate,omitempty"`
	EndDate     *time.Time `gorm:"index" json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Slider) TableName() string { return "sliders" }

// SliderService reads the storefront banners
type SliderService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSliderService creates a new slider service
func NewSliderService(db *gorm.DB) *SliderService {
	return &SliderService{db: db, now: time.Now}
}

// GetActiveSliders returns active sliders whose schedule covers now, in
// display order. A missing start or end date leaves that side open.
func (s *SliderService) GetActiveSliders(ctx context.Context) ([]Slider, error) {
	now := s.now()

	var sliders []Slider
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("sort_order ASC, id ASC").
		Find(&sliders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sliders: %w", err)
	}

	return sliders, nil
}
