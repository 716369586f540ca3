package pdf

import (
	"testing"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *order.Order {
	o := &order.Order{
		OrderNumber: "TP123456AB12",
		ShippingAddress: order.ShippingAddress{
			Name:     "Rahim Uddin",
			Phone:    "01712345678",
			Address:  "House 1, Road 2",
			District: "Dhaka",
			Area:     "Dhanmondi",
		},
		Items: []order.OrderItem{
			order.NewOrderItem(1, "Smart LED Bulb Set", "", decimal.NewFromInt(250), 2),
		},
		ShippingCost:  decimal.NewFromInt(60),
		PaymentMethod: order.PaymentMethodBkash,
		PaymentNumber: "01812345678",
		PaymentStatus: order.PaymentStatusPending,
		OrderStatus:   order.OrderStatusPending,
		// 20:00 UTC is already the next day in Dhaka
		CreatedAt: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC),
	}
	o.Subtotal = o.ItemsSubtotal()
	o.Total = o.Subtotal.Add(o.ShippingCost)
	return o
}

func TestService_RenderHTML(t *testing.T) {
	cfg := &config.Config{
		App:       config.AppConfig{CompanyName: "Tech Pinik", CompanyEmail: "support@techpinik.com"},
		Commerce:  config.CommerceConfig{Currency: "BDT"},
		Analytics: config.AnalyticsConfig{Timezone: "Asia/Dhaka"},
	}
	svc := NewService(cfg)

	html, err := svc.RenderHTML(testOrder())
	require.NoError(t, err)
	body := string(html)

	assert.Contains(t, body, "INV-TP123456AB12")
	assert.Contains(t, body, "Rahim Uddin")
	assert.Contains(t, body, "Smart LED Bulb Set")
	assert.Contains(t, body, "500.00")
	assert.Contains(t, body, "BDT 560.00")
	assert.Contains(t, body, "bkash (01812345678)")
	assert.Contains(t, body, "March 2, 2026")
	assert.Equal(t, "invoice-TP123456AB12.pdf", InvoiceFilename(testOrder()))
}

func TestService_RenderHTML_FreeShipping(t *testing.T) {
	svc := NewService(&config.Config{Commerce: config.CommerceConfig{Currency: "BDT"}})
	o := testOrder()
	o.ShippingCost = decimal.Zero

	html, err := svc.RenderHTML(o)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Free")
}
