// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository is the gorm-backed order ledger
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for transactions
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Create inserts the order with its items in one transaction. A clash on the
// order number is reported as ErrDuplicateOrderNumber.
func (r *Repository) Create(ctx context.Context, o *Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// FindByRef loads an order by numeric id or by order number
func (r *Repository) FindByRef(ctx context.Context, ref string) (*Order, error) {
	return r.findByRef(r.db.WithContext(ctx), ref)
}

func (r *Repository) findByRef(db *gorm.DB, ref string) (*Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrOrderNotFound
	}

	query := db.
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		})

	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("order_number = ?", ref)
	}

	var o Order
	if err := query.First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// ExistsByNumber reports whether an order number is taken
func (r *Repository) ExistsByNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Order{}).Where("order_number = ?", orderNumber).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check order number: %w", err)
	}
	return count > 0, nil
}

// FindCreatedBetween returns orders with createdAt in [from, to), newest first, items loaded.
// Bounds are compared in UTC, the zone timestamps are written in.
func (r *Repository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// FindRecent returns the newest orders
func (r *Repository) FindRecent(ctx context.Context, limit int) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent orders: %w", err)
	}
	return orders, nil
}

// FindForCustomers returns every order, optionally filtered by name, phone or order number
func (r *Repository) FindForCustomers(ctx context.Context, search string) ([]Order, error) {
	query := r.db.WithContext(ctx).Model(&Order{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(shipping_name) LIKE ? OR shipping_phone LIKE ? OR LOWER(order_number) LIKE ?",
			pattern, "%"+search+"%", pattern,
		)
	}

	var orders []Order
	if err := query.Order("created_at ASC, id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve customer orders: %w", err)
	}
	return orders, nil
}

// Totals are lifetime aggregates over the ledger
type Totals struct {
	Orders    int64
	Customers int64
	Revenue   decimal.Decimal
}

// LifetimeTotals aggregates in the database rather than loading the ledger
func (r *Repository) LifetimeTotals(ctx context.Context) (Totals, error) {
	var totals Totals
	db := r.db.WithContext(ctx)

	if err := db.Model(&Order{}).Count(&totals.Orders).Error; err != nil {
		return totals, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Model(&Order{}).Distinct("shipping_phone").Count(&totals.Customers).Error; err != nil {
		return totals, fmt.Errorf("failed to count customers: %w", err)
	}

	revenue, err := r.sumTotal(db.Model(&Order{}))
	if err != nil {
		return totals, err
	}
	totals.Revenue = revenue
	return totals, nil
}

// PeriodTotals counts orders and sums revenue for createdAt in [from, to)
func (r *Repository) PeriodTotals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error) {
	db := r.db.WithContext(ctx)
	scope := func() *gorm.DB {
		return db.Model(&Order{}).Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC())
	}

	var count int64
	if err := scope().Count(&count).Error; err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to count orders: %w", err)
	}
	revenue, err := r.sumTotal(scope())
	if err != nil {
		return 0, decimal.Zero, err
	}
	return count, revenue, nil
}

func (r *Repository) sumTotal(query *gorm.DB) (decimal.Decimal, error) {
	var revenue decimal.NullDecimal
	if err := query.Select("SUM(total)").Row().Scan(&revenue); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if !revenue.Valid {
		return decimal.Zero, nil
	}
	return revenue.Decimal, nil
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Status string `form:"status"`
	Phone  string `form:"phone"`
}

// Pagination represents pagination information
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ListResponse is one page of orders
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// List pages through orders newest first
func (r *Repository) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 10
	}

	query := r.db.WithContext(ctx).Model(&Order{})
	if req.Status != "" {
		status := OrderStatus(req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("order status %q: %w", req.Status, ErrInvalidStatusValue)
		}
		query = query.Where("order_status = ?", status)
	}
	if req.Phone != "" {
		query = query.Where("shipping_phone LIKE ?", "%"+req.Phone+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.
		Preload("Items").
		Order("created_at DESC, id DESC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:  req.Page,
			Limit: req.Limit,
			Total: total,
			Pages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
		},
	}, nil
}

// Mutate loads the order inside a transaction, applies fn and writes back the
// lifecycle columns plus any history row fn returns. Concurrent mutations of
// the same order are last-writer-wins.
func (r *Repository) Mutate(ctx context.Context, ref string, fn func(o *Order) (*StatusHistory, error)) (*Order, error) {
	var id uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := r.findByRef(tx, ref)
		if err != nil {
			return err
		}
		id = o.ID

		history, err := fn(o)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"order_status":    o.OrderStatus,
			"payment_status":  o.PaymentStatus,
			"notes":           o.Notes,
			"tracking_number": o.TrackingNumber,
			"cancel_reason":   o.CancelReason,
			"delivered_at":    o.DeliveredAt,
			"cancelled_at":    o.CancelledAt,
			"updated_at":      o.UpdatedAt,
		}
		if err := tx.Model(&Order{}).Where("id = ?", o.ID).Updates(updates).Error; err != nil {
			return shared.NewPersistenceError("update order", err)
		}

		if history != nil {
			history.OrderID = o.ID
			if err := tx.Create(history).Error; err != nil {
				return shared.NewPersistenceError("record status history", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByRef(ctx, strconv.FormatUint(uint64(id), 10))
}
