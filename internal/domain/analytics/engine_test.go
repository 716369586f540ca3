package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func mkOrder(id uint, name, phone string, createdAt time.Time, items ...order.OrderItem) order.Order {
	o := order.Order{
		ID:              id,
		OrderNumber:     fmt.Sprintf("TP%06d", id),
		ShippingAddress: order.ShippingAddress{Name: name, Phone: phone},
		Items:           items,
		OrderStatus:     order.OrderStatusPending,
		CreatedAt:       createdAt,
	}
	o.Subtotal = o.ItemsSubtotal()
	o.Total = o.Subtotal
	return o
}

func item(productID uint, name string, price int64, qty int) order.OrderItem {
	return order.NewOrderItem(productID, name, "", decimal.NewFromInt(price), qty)
}

func mustWindow(t *testing.T, key string) Window {
	t.Helper()
	w, err := ResolveWindow(key, testNow)
	require.NoError(t, err)
	return w
}

func TestResolveWindow(t *testing.T) {
	tests := []struct {
		key   string
		start time.Time
	}{
		{"7d", testNow.AddDate(0, 0, -7)},
		{"30d", testNow.AddDate(0, 0, -30)},
		{"", testNow.AddDate(0, 0, -30)},
		{"90d", testNow.AddDate(0, 0, -90)},
		{"1y", testNow.AddDate(-1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run("range "+tt.key, func(t *testing.T) {
			w, err := ResolveWindow(tt.key, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, testNow, w.End)
			assert.Equal(t, w.Start.Add(-w.Duration()), w.ComparisonStart)
		})
	}

	t.Run("unknown range", func(t *testing.T) {
		_, err := ResolveWindow("2w", testNow)
		vErr, ok := shared.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "range", vErr.Field)
	})

	t.Run("period membership", func(t *testing.T) {
		w := mustWindow(t, "7d")
		assert.True(t, w.Contains(w.Start))
		assert.True(t, w.Contains(w.End))
		assert.False(t, w.InComparison(w.Start))
		assert.True(t, w.InComparison(w.ComparisonStart))
		assert.False(t, w.Contains(w.ComparisonStart))
	})

	t.Run("series days", func(t *testing.T) {
		assert.Equal(t, 7, mustWindow(t, "7d").SeriesDays())
		assert.Equal(t, 30, mustWindow(t, "30d").SeriesDays())
		assert.Equal(t, 30, mustWindow(t, "1y").SeriesDays())
	})
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 25.0, Growth(decimal.NewFromInt(10000), decimal.NewFromInt(8000)))
	assert.Equal(t, -50.0, Growth(decimal.NewFromInt(50), decimal.NewFromInt(100)))
	assert.Equal(t, 0.0, Growth(decimal.NewFromInt(10000), decimal.Zero))
	assert.Equal(t, 0.0, Growth(decimal.Zero, decimal.Zero))
	assert.InDelta(t, 33.333333, Growth(decimal.NewFromInt(4), decimal.NewFromInt(3)), 1e-6)
	assert.InDelta(t, -66.666667, Growth(decimal.NewFromInt(1), decimal.NewFromInt(3)), 1e-6)
	assert.NotEqual(t, -66.67, Growth(decimal.NewFromInt(1), decimal.NewFromInt(3)), "analytics growth is unrounded")
	assert.Equal(t, -66.67, roundPercent(Growth(decimal.NewFromInt(1), decimal.NewFromInt(3))))
}

func TestCompute_Overview(t *testing.T) {
	w := mustWindow(t, "30d")
	inCurrent := testNow.AddDate(0, 0, -3)
	inComparison := testNow.AddDate(0, 0, -40)

	t.Run("revenue growth 25 percent", func(t *testing.T) {
		ledger := []order.Order{
			mkOrder(1, "A", "01711111111", inCurrent, item(1, "P1", 6000, 1)),
			mkOrder(2, "B", "01722222222", inCurrent, item(1, "P1", 4000, 1)),
			mkOrder(3, "A", "01711111111", inComparison, item(1, "P1", 8000, 1)),
		}
		snap := Compute(Input{Window: w, Ledger: ledger, TotalProducts: 12})

		assert.True(t, snap.Overview.TotalRevenue.Equal(decimal.NewFromInt(10000)))
		assert.Equal(t, 2, snap.Overview.TotalOrders)
		assert.Equal(t, 2, snap.Overview.TotalCustomers)
		assert.Equal(t, int64(12), snap.Overview.TotalProducts)
		assert.Equal(t, 25.0, snap.Overview.RevenueGrowth)
		assert.Equal(t, 100.0, snap.Overview.OrdersGrowth)
		assert.Equal(t, 100.0, snap.Overview.CustomersGrowth)
		assert.True(t, snap.Overview.AvgOrderValue.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("zero baseline gives zero growth on every axis", func(t *testing.T) {
		ledger := []order.Order{
			mkOrder(1, "A", "01711111111", inCurrent, item(1, "P1", 10000, 1)),
		}
		snap := Compute(Input{Window: w, Ledger: ledger})

		assert.Equal(t, 0.0, snap.Overview.RevenueGrowth)
		assert.Equal(t, 0.0, snap.Overview.OrdersGrowth)
		assert.Equal(t, 0.0, snap.Overview.CustomersGrowth)
	})

	t.Run("empty ledger", func(t *testing.T) {
		snap := Compute(Input{Window: w})
		assert.True(t, snap.Overview.TotalRevenue.IsZero())
		assert.True(t, snap.Overview.AvgOrderValue.IsZero())
		assert.Empty(t, snap.TopProducts)
		assert.Empty(t, snap.RecentOrders)
		assert.Equal(t, 0.0, snap.CustomerInsights.CustomerRetentionRate)
		assert.Len(t, snap.SalesChart.Labels, 30)
	})

	t.Run("orders outside both periods are ignored", func(t *testing.T) {
		ledger := []order.Order{
			mkOrder(1, "A", "01711111111", testNow.AddDate(0, 0, -90), item(1, "P1", 500, 1)),
			mkOrder(2, "A", "01711111111", testNow.Add(time.Hour), item(1, "P1", 500, 1)),
		}
		snap := Compute(Input{Window: w, Ledger: ledger})
		assert.Zero(t, snap.Overview.TotalOrders)
		assert.Zero(t, snap.CustomerInsights.TotalCustomers)
	})
}

func TestCompute_CustomerInsights(t *testing.T) {
	w := mustWindow(t, "30d")
	var ledger []order.Order
	id := uint(0)

	// ten distinct customers, three of them with a second order in the comparison period
	for i := 0; i < 10; i++ {
		id++
		name := fmt.Sprintf("Customer %d", i)
		phone := fmt.Sprintf("0171000000%d", i)
		ledger = append(ledger, mkOrder(id, name, phone, testNow.AddDate(0, 0, -2), item(1, "P", 100, 1)))
		if i < 3 {
			id++
			ledger = append(ledger, mkOrder(id, name, phone, testNow.AddDate(0, 0, -45), item(1, "P", 100, 1)))
		}
	}

	snap := Compute(Input{Window: w, Ledger: ledger})

	insights := snap.CustomerInsights
	assert.Equal(t, 10, insights.TotalCustomers)
	assert.Equal(t, 7, insights.NewCustomers)
	assert.Equal(t, 3, insights.ReturningCustomers)
	assert.Equal(t, 30.0, insights.CustomerRetentionRate)
	assert.True(t, insights.AvgCustomerLifetimeValue.Equal(decimal.NewFromInt(130)), insights.AvgCustomerLifetimeValue.String())

	t.Run("same name different phone is a different customer", func(t *testing.T) {
		ledger := []order.Order{
			mkOrder(1, "Rahim", "01711111111", testNow.AddDate(0, 0, -1), item(1, "P", 100, 1)),
			mkOrder(2, "Rahim", "01822222222", testNow.AddDate(0, 0, -1), item(1, "P", 100, 1)),
		}
		snap := Compute(Input{Window: w, Ledger: ledger})
		assert.Equal(t, 2, snap.CustomerInsights.NewCustomers)
		assert.Equal(t, 2, snap.Overview.TotalCustomers)
	})
}

func TestCompute_Leaderboards(t *testing.T) {
	w := mustWindow(t, "7d")
	day := testNow.AddDate(0, 0, -1)

	ledger := []order.Order{
		mkOrder(1, "A", "1", day, item(1, "Phone", 1000, 1), item(2, "Case", 100, 5)),
		mkOrder(2, "B", "2", day, item(3, "Shirt", 500, 2), item(4, "Cap", 50, 1)),
		mkOrder(3, "C", "3", day, item(5, "Socks", 20, 3), item(6, "Belt", 80, 2), item(7, "Watch", 3000, 1)),
		mkOrder(4, "D", "4", day.Add(time.Minute), item(1, "Phone v2", 1000, 2)),
	}
	categories := map[uint]product.Category{
		1: {ID: 10, Name: "Electronics"},
		2: {ID: 10, Name: "Electronics"},
		7: {ID: 10, Name: "Electronics"},
		3: {ID: 20, Name: "Fashion"},
		4: {ID: 20, Name: "Fashion"},
	}

	snap := Compute(Input{Window: w, Ledger: ledger, Categories: categories})

	require.Len(t, snap.TopProducts, 5)
	assert.Equal(t, uint(2), snap.TopProducts[0].ID)
	assert.Equal(t, 5, snap.TopProducts[0].Sales)
	assert.Equal(t, uint(1), snap.TopProducts[1].ID)
	assert.Equal(t, "Phone v2", snap.TopProducts[1].Name, "latest snapshot name wins")
	assert.Equal(t, 3, snap.TopProducts[1].Sales)
	assert.True(t, snap.TopProducts[1].Revenue.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, uint(5), snap.TopProducts[2].ID)
	assert.Equal(t, uint(3), snap.TopProducts[3].ID, "ties on sales break on revenue")
	assert.Equal(t, uint(6), snap.TopProducts[4].ID)

	require.Len(t, snap.TopCategories, 2)
	assert.Equal(t, "Electronics", snap.TopCategories[0].Name)
	assert.Equal(t, 9, snap.TopCategories[0].Sales)
	assert.True(t, snap.TopCategories[0].Revenue.Equal(decimal.NewFromInt(6500)))
	assert.Equal(t, "Fashion", snap.TopCategories[1].Name)
	assert.Equal(t, 3, snap.TopCategories[1].Sales)
}

func TestCompute_RecentOrders(t *testing.T) {
	w := mustWindow(t, "30d")
	var ledger []order.Order
	for i := 1; i <= 7; i++ {
		ledger = append(ledger, mkOrder(uint(i), fmt.Sprintf("C%d", i), "017", testNow.AddDate(0, 0, -i), item(1, "P", 100, 1)))
	}

	snap := Compute(Input{Window: w, Ledger: ledger})
	require.Len(t, snap.RecentOrders, 5)
	assert.Equal(t, "C1", snap.RecentOrders[0].CustomerName)
	assert.Equal(t, "C5", snap.RecentOrders[4].CustomerName)
	assert.Equal(t, order.OrderStatusPending, snap.RecentOrders[0].Status)
	assert.Equal(t, "TP000001", snap.RecentOrders[0].OrderNumber)
}

func TestCompute_SalesChart(t *testing.T) {
	dhaka, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)
	w := mustWindow(t, "7d")

	ledger := []order.Order{
		// 02:00 on Mar 10 in Dhaka
		mkOrder(1, "A", "1", time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC), item(1, "P", 700, 1)),
		mkOrder(2, "B", "2", time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), item(1, "P", 300, 1)),
		mkOrder(3, "C", "3", time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC), item(1, "P", 200, 1)),
	}

	snap := Compute(Input{Window: w, Ledger: ledger, Location: dhaka})

	require.Len(t, snap.SalesChart.Labels, 7)
	require.Len(t, snap.SalesChart.Data, 7)
	assert.Equal(t, "Mar 4", snap.SalesChart.Labels[0])
	assert.Equal(t, "Mar 10", snap.SalesChart.Labels[6])
	assert.True(t, snap.SalesChart.Data[6].Equal(decimal.NewFromInt(700)))
	assert.True(t, snap.SalesChart.Data[5].Equal(decimal.NewFromInt(500)))
	assert.True(t, snap.SalesChart.Data[0].IsZero())

	total := decimal.Zero
	for _, v := range snap.SalesChart.Data {
		total = total.Add(v)
	}
	assert.True(t, total.Equal(snap.Overview.TotalRevenue))
}
