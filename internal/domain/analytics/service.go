// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ledger is the read side of the order store
type Ledger interface {
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]order.Order, error)
	FindRecent(ctx context.Context, limit int) ([]order.Order, error)
	FindForCustomers(ctx context.Context, search string) ([]order.Order, error)
	LifetimeTotals(ctx context.Context) (order.Totals, error)
	PeriodTotals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error)
}

// Catalog supplies product counts and the product to category mapping
type Catalog interface {
	CountActive(ctx context.Context) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CategoriesForProducts(ctx context.Context, productIDs []uint) (map[uint]product.Category, error)
}

// Service handles analytics business logic. It only reads.
type Service struct {
	ledger   Ledger
	catalog  Catalog
	location *time.Location
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a new analytics service
func NewService(ledger Ledger, catalog Catalog, cfg *config.Config, logger logrus.FieldLogger) *Service {
	loc := time.UTC
	if cfg != nil {
		loc = cfg.Location()
	}
	return &Service{
		ledger:   ledger,
		catalog:  catalog,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// GetAnalytics builds the snapshot for the requested range
func (s *Service) GetAnalytics(ctx context.Context, rangeKey string) (*Snapshot, error) {
	window, err := ResolveWindow(rangeKey, s.now())
	if err != nil {
		return nil, err
	}

	// the repository range is half-open; widen it so End itself is included
	ledger, err := s.ledger.FindCreatedBetween(ctx, window.ComparisonStart, window.End.Add(time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to load order ledger: %w", err)
	}

	totalProducts, err := s.catalog.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.catalog.CategoriesForProducts(ctx, productIDs(ledger, window))
	if err != nil {
		return nil, err
	}

	snapshot := Compute(Input{
		Window:        window,
		Ledger:        ledger,
		Categories:    categories,
		TotalProducts: totalProducts,
		Location:      s.location,
	})

	s.logger.WithFields(logrus.Fields{
		"range":  window.Range,
		"orders": snapshot.Overview.TotalOrders,
	}).Debug("analytics snapshot computed")

	return &snapshot, nil
}

func productIDs(ledger []order.Order, w Window) []uint {
	seen := make(map[uint]struct{})
	var ids []uint
	for _, o := range ledger {
		if !w.Contains(o.CreatedAt) {
			continue
		}
		for _, item := range o.Items {
			if _, ok := seen[item.ProductID]; !ok {
				seen[item.ProductID] = struct{}{}
				ids = append(ids, item.ProductID)
			}
		}
	}
	return ids
}

// Dashboard is the admin landing page summary
type Dashboard struct {
	TotalProducts  int64           `json:"totalProducts"`
	TotalOrders    int64           `json:"totalOrders"`
	TotalCustomers int64           `json:"totalCustomers"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	RecentOrders   []RecentOrder   `json:"recentOrders"`
	MonthlyStats   MonthlyStats    `json:"monthlyStats"`
}

// MonthlyStats compares this calendar month with the previous one
type MonthlyStats struct {
	Orders        int64           `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	OrdersChange  float64         `json:"ordersChange"`
	RevenueChange float64         `json:"revenueChange"`
}

const dashboardRecentOrders = 10

// GetDashboard returns lifetime totals, month over month change and the latest orders.
// Customers are counted by distinct phone here.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	totals, err := s.ledger.LifetimeTotals(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location)
	nextMonth := thisMonth.AddDate(0, 1, 0)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	monthOrders, monthRevenue, err := s.ledger.PeriodTotals(ctx, thisMonth, nextMonth)
	if err != nil {
		return nil, err
	}
	prevOrders, prevRevenue, err := s.ledger.PeriodTotals(ctx, lastMonth, thisMonth)
	if err != nil {
		return nil, err
	}

	recent, err := s.ledger.FindRecent(ctx, dashboardRecentOrders)
	if err != nil {
		return nil, err
	}
	feed := make([]RecentOrder, 0, len(recent))
	for _, o := range recent {
		feed = append(feed, toRecentOrder(o))
	}

	return &Dashboard{
		TotalProducts:  products,
		TotalOrders:    totals.Orders,
		TotalCustomers: totals.Customers,
		TotalRevenue:   totals.Revenue,
		RecentOrders:   feed,
		MonthlyStats: MonthlyStats{
			Orders:        monthOrders,
			Revenue:       monthRevenue,
			OrdersChange:  roundPercent(Growth(decimal.NewFromInt(monthOrders), decimal.NewFromInt(prevOrders))),
			RevenueChange: roundPercent(Growth(monthRevenue, prevRevenue)),
		},
	}, nil
}
