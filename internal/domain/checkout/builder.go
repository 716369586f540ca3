// internal/domain/checkout/builder.go
package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Pricing holds the shipping rule
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// DefaultPricing is free shipping from 1000, otherwise a flat 60
var DefaultPricing = Pricing{
	FreeShippingThreshold: decimal.NewFromInt(1000),
	FlatShippingFee:       decimal.NewFromInt(60),
}

// ShippingCost is zero once subtotal reaches the threshold
func (p Pricing) ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShippingFee
}

// Totals is the server-side price computation for a set of lines
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
}

// ComputeTotals derives subtotal, shipping and total from the line totals
func (p Pricing) ComputeTotals(items []order.OrderItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}
	shipping := p.ShippingCost(subtotal)
	return Totals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Total:        subtotal.Add(shipping),
	}
}

// BuildOrder turns validated input and priced lines into an unsaved order.
// Both statuses start as pending whatever the payment method.
func BuildOrder(req *CreateOrderRequest, items []order.OrderItem, pricing Pricing) *order.Order {
	totals := pricing.ComputeTotals(items)

	o := &order.Order{
		ShippingAddress: order.ShippingAddress{
			Name:       strings.TrimSpace(req.Customer.FirstName + " " + req.Customer.LastName),
			Phone:      req.Customer.Phone,
			Address:    req.Shipping.Address,
			District:   req.Shipping.District,
			Area:       req.Shipping.City,
			Landmark:   req.Shipping.Landmark,
			PostalCode: req.Shipping.PostalCode,
		},
		Email:         req.Customer.Email,
		Items:         items,
		Subtotal:      totals.Subtotal,
		ShippingCost:  totals.ShippingCost,
		Total:         totals.Total,
		PaymentMethod: req.Payment.PaymentMethod(),
		PaymentStatus: order.PaymentStatusPending,
		OrderStatus:   order.OrderStatusPending,
		Notes:         req.Notes,
	}
	if o.PaymentMethod.IsMobileWallet() {
		o.PaymentNumber = req.Payment.MobileNumber
	}
	return o
}

// NumberGenerator produces candidate order numbers
type NumberGenerator func(now time.Time) string

// NewNumberGenerator builds prefix + last six digits of the Unix millisecond
// clock + a four character random token, e.g. TP482913A7F0.
func NewNumberGenerator(prefix string) NumberGenerator {
	return func(now time.Time) string {
		stamp := now.UnixMilli() % 1_000_000
		token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:4]
		return fmt.Sprintf("%s%06d%s", prefix, stamp, token)
	}
}
