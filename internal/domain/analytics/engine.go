// internal/domain/analytics/engine.go
package analytics

import (
	"sort"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/shopspring/decimal"
)

const (
	leaderboardSize  = 5
	recentOrdersSize = 5
)

var hundred = decimal.NewFromInt(100)

// Snapshot is rebuilt from the order ledger on every request and never stored
type Snapshot struct {
	Range            Range            `json:"range"`
	Period           Period           `json:"period"`
	Overview         Overview         `json:"overview"`
	SalesChart       Series           `json:"salesChart"`
	TopProducts      []Leader         `json:"topProducts"`
	TopCategories    []Leader         `json:"topCategories"`
	RecentOrders     []RecentOrder    `json:"recentOrders"`
	CustomerInsights CustomerInsights `json:"customerInsights"`
}

// Period echoes the resolved window
type Period struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	ComparisonStart time.Time `json:"comparisonStart"`
}

// Overview holds the headline KPIs
type Overview struct {
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalOrders     int             `json:"totalOrders"`
	TotalCustomers  int             `json:"totalCustomers"`
	TotalProducts   int64           `json:"totalProducts"`
	RevenueGrowth   float64         `json:"revenueGrowth"`
	OrdersGrowth    float64         `json:"ordersGrowth"`
	CustomersGrowth float64         `json:"customersGrowth"`
	AvgOrderValue   decimal.Decimal `json:"avgOrderValue"`
}

// Series is a labelled daily revenue chart
type Series struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}

// Leader is one row of a top-products or top-categories board
type Leader struct {
	ID      uint            `json:"id"`
	Name    string          `json:"name"`
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RecentOrder is an order reduced for the dashboard feed
type RecentOrder struct {
	ID           uint              `json:"id"`
	OrderNumber  string            `json:"orderNumber"`
	CustomerName string            `json:"customerName"`
	Total        decimal.Decimal   `json:"total"`
	Status       order.OrderStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// CustomerInsights describes customers over both periods combined
type CustomerInsights struct {
	NewCustomers             int             `json:"newCustomers"`
	ReturningCustomers       int             `json:"returningCustomers"`
	TotalCustomers           int             `json:"totalCustomers"`
	CustomerRetentionRate    float64         `json:"customerRetentionRate"`
	AvgCustomerLifetimeValue decimal.Decimal `json:"avgCustomerLifetimeValue"`
}

// Input is everything Compute needs
type Input struct {
	Window Window
	// Ledger holds at least every order created in [ComparisonStart, End]
	Ledger []order.Order
	// Categories maps product ID to its category; unmapped items are left off the category board
	Categories    map[uint]product.Category
	TotalProducts int64
	Location      *time.Location
}

// Compute derives the snapshot. It is a pure function of its input.
func Compute(in Input) Snapshot {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	var current, comparison []order.Order
	for _, o := range in.Ledger {
		switch {
		case in.Window.Contains(o.CreatedAt):
			current = append(current, o)
		case in.Window.InComparison(o.CreatedAt):
			comparison = append(comparison, o)
		}
	}
	sortNewestFirst(current)

	revenue := sumTotals(current)
	comparisonRevenue := sumTotals(comparison)
	customers := distinctCustomers(current)
	comparisonCustomers := distinctCustomers(comparison)

	overview := Overview{
		TotalRevenue:    revenue,
		TotalOrders:     len(current),
		TotalCustomers:  customers,
		TotalProducts:   in.TotalProducts,
		RevenueGrowth:   Growth(revenue, comparisonRevenue),
		OrdersGrowth:    Growth(decimal.NewFromInt(int64(len(current))), decimal.NewFromInt(int64(len(comparison)))),
		CustomersGrowth: Growth(decimal.NewFromInt(int64(customers)), decimal.NewFromInt(int64(comparisonCustomers))),
		AvgOrderValue:   decimal.Zero,
	}
	if len(current) > 0 {
		overview.AvgOrderValue = revenue.Div(decimal.NewFromInt(int64(len(current)))).Round(2)
	}

	return Snapshot{
		Range: in.Window.Range,
		Period: Period{
			Start:           in.Window.Start,
			End:             in.Window.End,
			ComparisonStart: in.Window.ComparisonStart,
		},
		Overview:         overview,
		SalesChart:       dailySeries(current, in.Window, loc),
		TopProducts:      topProducts(current),
		TopCategories:    topCategories(current, in.Categories),
		RecentOrders:     recentOrders(current),
		CustomerInsights: customerInsights(append(append([]order.Order{}, comparison...), current...)),
	}
}

// Growth is (current - comparison) / comparison * 100, and exactly 0 when
// the comparison baseline is not positive. The result is not rounded.
func Growth(current, comparison decimal.Decimal) float64 {
	if !comparison.IsPositive() {
		return 0
	}
	return current.Sub(comparison).Div(comparison).Mul(hundred).InexactFloat64()
}

// roundPercent rounds a percentage to two places for display
func roundPercent(p float64) float64 {
	return decimal.NewFromFloat(p).Round(2).InexactFloat64()
}

// percentage is part / whole * 100, or 0 for an empty whole
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(whole))).
		Mul(hundred).
		InexactFloat64()
}

func sumTotals(orders []order.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total)
	}
	return sum
}

func distinctCustomers(orders []order.Order) int {
	seen := make(map[order.CustomerKey]struct{}, len(orders))
	for i := range orders {
		seen[orders[i].CustomerKey()] = struct{}{}
	}
	return len(seen)
}

func sortNewestFirst(orders []order.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func topProducts(orders []order.Order) []Leader {
	byProduct := make(map[uint]*Leader)
	for _, o := range orders {
		for _, item := range o.Items {
			l, ok := byProduct[item.ProductID]
			if !ok {
				// newest order first, so the latest snapshot name wins
				l = &Leader{ID: item.ProductID, Name: item.Name, Revenue: decimal.Zero}
				byProduct[item.ProductID] = l
			}
			l.Sales += item.Quantity
			l.Revenue = l.Revenue.Add(item.Total)
		}
	}
	return rank(byProduct)
}

func topCategories(orders []order.Order, categories map[uint]product.Category) []Leader {
	byCategory := make(map[uint]*Leader)
	for _, o := range orders {
		for _, item := range o.Items {
			cat, ok := categories[item.ProductID]
			if !ok {
				continue
			}
			l, ok := byCategory[cat.ID]
			if !ok {
				l = &Leader{ID: cat.ID, Name: cat.Name, Revenue: decimal.Zero}
				byCategory[cat.ID] = l
			}
			l.Sales += item.Quantity
			l.Revenue = l.Revenue.Add(item.Total)
		}
	}
	return rank(byCategory)
}

// rank sorts by sales, then revenue, then name, and keeps the top five
func rank(groups map[uint]*Leader) []Leader {
	leaders := make([]Leader, 0, len(groups))
	for _, l := range groups {
		leaders = append(leaders, *l)
	}

	sort.Slice(leaders, func(i, j int) bool {
		a, b := leaders[i], leaders[j]
		if a.Sales != b.Sales {
			return a.Sales > b.Sales
		}
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	if len(leaders) > leaderboardSize {
		leaders = leaders[:leaderboardSize]
	}
	return leaders
}

func recentOrders(newestFirst []order.Order) []RecentOrder {
	n := len(newestFirst)
	if n > recentOrdersSize {
		n = recentOrdersSize
	}

	recent := make([]RecentOrder, 0, n)
	for _, o := range newestFirst[:n] {
		recent = append(recent, toRecentOrder(o))
	}
	return recent
}

func toRecentOrder(o order.Order) RecentOrder {
	return RecentOrder{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.ShippingAddress.Name,
		Total:        o.Total,
		Status:       o.OrderStatus,
		CreatedAt:    o.CreatedAt,
	}
}

// customerInsights classifies each customer key by order count over the
// combined window: one order is new, more than one is returning.
func customerInsights(combined []order.Order) CustomerInsights {
	counts := make(map[order.CustomerKey]int)
	for i := range combined {
		counts[combined[i].CustomerKey()]++
	}

	insights := CustomerInsights{
		TotalCustomers:           len(counts),
		AvgCustomerLifetimeValue: decimal.Zero,
	}
	for _, n := range counts {
		if n == 1 {
			insights.NewCustomers++
		} else {
			insights.ReturningCustomers++
		}
	}

	insights.CustomerRetentionRate = percentage(insights.ReturningCustomers, insights.TotalCustomers)
	if len(counts) > 0 {
		insights.AvgCustomerLifetimeValue = sumTotals(combined).Div(decimal.NewFromInt(int64(len(counts)))).Round(2)
	}
	return insights
}

// dailySeries buckets current revenue by calendar day in loc, oldest first,
// ending on the window's last day.
func dailySeries(current []order.Order, w Window, loc *time.Location) Series {
	days := w.SeriesDays()
	series := Series{
		Labels: make([]string, 0, days),
		Data:   make([]decimal.Decimal, 0, days),
	}

	byDay := make(map[string]decimal.Decimal)
	for _, o := range current {
		key := o.CreatedAt.In(loc).Format("2006-01-02")
		byDay[key] = byDay[key].Add(o.Total)
	}

	end := w.End.In(loc)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		series.Labels = append(series.Labels, day.Format("Jan 2"))
		series.Data = append(series.Data, byDay[day.Format("2006-01-02")])
	}
	return series
}
