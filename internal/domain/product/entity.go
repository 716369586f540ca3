// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrCategoryNotFound = shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	ErrCategoryInUse    = shared.NewDomainError("CATEGORY_IN_USE", "Cannot delete category with existing products")
	ErrSlugTaken        = shared.NewDomainError("SLUG_TAKEN", "Slug already exists")
)

// Product represents a catalog product
type Product struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	SKU               string           `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name              string           `gorm:"not null;size:200" json:"name"`
	Slug              string           `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description       string           `gorm:"type:text" json:"description"`
	ShortDescription  string           `gorm:"size:300" json:"shortDescription"`
	Brand             string           `gorm:"size:100;index" json:"brand"`
	CategoryID        uint             `gorm:"not null;index" json:"categoryId"`
	Images            []string         `gorm:"type:text;serializer:json" json:"images"`
	Price             decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	ComparePrice      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"comparePrice,omitempty"`
	Stock             int              `gorm:"not null;default:0" json:"stock"`
	LowStockThreshold int              `gorm:"default:5" json:"lowStockThreshold"`
	Tags              []string         `gorm:"type:text;serializer:json" json:"tags"`
	IsActive          bool             `gorm:"default:true;index" json:"isActive"`
	IsFeatured        bool             `gorm:"default:false" json:"isFeatured"`
	Views             int              `gorm:"default:0" json:"views"`
	Sales             int              `gorm:"default:0" json:"sales"`
	Rating            float64          `gorm:"default:0" json:"rating"`
	ReviewCount       int              `gorm:"default:0" json:"reviewCount"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
}

// Category represents a product category
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:100" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:120" json:"slug"`
	Description string         `gorm:"size:500" json:"description"`
	Image       string         `gorm:"size:500" json:"image"`
	Icon        string         `gorm:"size:500" json:"icon"`
	SortOrder   int            `gorm:"default:0" json:"sortOrder"`
	IsActive    bool           `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }

// IsInStock checks if product has stock
func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

// IsLowStock checks if product is low on stock
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// PrimaryImage returns the first image, or "" when the product has none
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DiscountPercentage returns the rounded markdown against ComparePrice
func (p *Product) DiscountPercentage() int {
	if p.ComparePrice == nil || !p.ComparePrice.GreaterThan(p.Price) {
		return 0
	}
	off := p.ComparePrice.Sub(p.Price).Div(*p.ComparePrice).Mul(decimal.NewFromInt(100))
	return int(off.Round(0).IntPart())
}
