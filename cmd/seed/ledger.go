// cmd/seed/ledger.go
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/checkout"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/sirupsen/logrus"
)

var districts = []string{"Dhaka", "Chattogram", "Sylhet", "Khulna", "Rajshahi", "Barishal", "Rangpur", "Mymensingh"}

var paymentMethods = []string{"cod", "cod", "cod", "bkash", "nagad", "rocket"}

// statuses a demo order ends up in, weighted towards delivered
var finalStatuses = []order.OrderStatus{
	order.OrderStatusPending,
	order.OrderStatusConfirmed,
	order.OrderStatusProcessing,
	order.OrderStatusShipped,
	order.OrderStatusDelivered,
	order.OrderStatusDelivered,
	order.OrderStatusDelivered,
	order.OrderStatusCancelled,
}

type customer struct {
	firstName string
	lastName  string
	email     string
	phone     string
	address   string
	city      string
	district  string
}

// LedgerGenerator writes plausible historical orders for exercising analytics
type LedgerGenerator struct {
	faker    *gofakeit.Faker
	orders   checkout.OrderStore
	catalog  []product.Product
	pricing  checkout.Pricing
	generate checkout.NumberGenerator
	logger   logrus.FieldLogger
	now      func() time.Time

	customers []customer
}

// NewLedgerGenerator builds a generator over catalog. A fixed seed gives a
// repeatable ledger.
func NewLedgerGenerator(orders checkout.OrderStore, catalog []product.Product, pricing checkout.Pricing, prefix string, seed uint64, logger logrus.FieldLogger) *LedgerGenerator {
	return &LedgerGenerator{
		faker:    gofakeit.New(seed),
		orders:   orders,
		catalog:  catalog,
		pricing:  pricing,
		generate: checkout.NewNumberGenerator(prefix),
		logger:   logger,
		now:      time.Now,
	}
}

// Generate writes count orders spread over the last days days. About a
// third of the orders come from repeat customers.
func (g *LedgerGenerator) Generate(ctx context.Context, count, days int) (int, error) {
	if len(g.catalog) == 0 {
		return 0, errors.New("catalog is empty, run migrations with seeding first")
	}
	if count <= 0 {
		return 0, nil
	}
	if days <= 0 {
		days = 365
	}

	poolSize := count*2/3 + 1
	g.customers = make([]customer, 0, poolSize)
	for i := 0; i < poolSize; i++ {
		g.customers = append(g.customers, g.newCustomer())
	}

	end := g.now().UTC()
	start := end.AddDate(0, 0, -days)

	written := 0
	for i := 0; i < count; i++ {
		o, err := g.buildOrder(start, end)
		if err != nil {
			return written, err
		}
		if err := g.persist(ctx, o); err != nil {
			return written, err
		}
		written++
	}

	g.logger.WithFields(logrus.Fields{
		"orders":    written,
		"customers": len(g.customers),
		"days":      days,
	}).Info("demo ledger generated")

	return written, nil
}

func (g *LedgerGenerator) newCustomer() customer {
	f := g.faker
	return customer{
		firstName: f.FirstName(),
		lastName:  f.LastName(),
		email:     f.Email(),
		phone:     fmt.Sprintf("01%d%08d", f.Number(3, 9), f.Number(0, 99999999)),
		address:   f.Street(),
		city:      f.City(),
		district:  f.RandomString(districts),
	}
}

func (g *LedgerGenerator) buildOrder(start, end time.Time) (*order.Order, error) {
	f := g.faker
	c := g.customers[f.Number(0, len(g.customers)-1)]

	lines := f.Number(1, 3)
	inputs := make([]checkout.ItemInput, 0, lines)
	items := make([]order.OrderItem, 0, lines)
	seen := make(map[uint]bool, lines)
	for len(items) < lines {
		p := g.catalog[f.Number(0, len(g.catalog)-1)]
		if seen[p.ID] {
			if len(seen) == len(g.catalog) {
				break
			}
			continue
		}
		seen[p.ID] = true

		qty := f.Number(1, 3)
		inputs = append(inputs, checkout.ItemInput{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: qty})
		items = append(items, order.NewOrderItem(p.ID, p.Name, p.PrimaryImage(), shared.Round2(p.Price), qty))
	}

	req := &checkout.CreateOrderRequest{
		Items: inputs,
		Customer: checkout.CustomerInput{
			FirstName: c.firstName,
			LastName:  c.lastName,
			Email:     c.email,
			Phone:     c.phone,
		},
		Shipping: checkout.ShippingInput{
			Address:  c.address,
			City:     c.city,
			District: c.district,
		},
		Payment: checkout.PaymentInput{Method: f.RandomString(paymentMethods)},
	}
	if req.Payment.PaymentMethod().IsMobileWallet() {
		req.Payment.MobileNumber = c.phone
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build demo order: %w", err)
	}

	o := checkout.BuildOrder(req, items, g.pricing)
	o.CreatedAt = f.DateRange(start, end).UTC()
	o.UpdatedAt = o.CreatedAt

	target := finalStatuses[f.Number(0, len(finalStatuses)-1)]
	if target != order.OrderStatusPending {
		status := string(target)
		update := order.UpdateRequest{OrderStatus: &status}
		if target == order.OrderStatusDelivered {
			paid := string(order.PaymentStatusPaid)
			update.PaymentStatus = &paid
		}

		changedAt := o.CreatedAt.Add(time.Duration(f.Number(1, 72)) * time.Hour)
		if changedAt.After(end) {
			changedAt = end
		}
		change, err := order.Apply(o, update, changedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to advance demo order: %w", err)
		}
		if change != nil {
			o.StatusHistory = append(o.StatusHistory, order.StatusHistory{
				FromStatus: change.From,
				ToStatus:   change.To,
				Comment:    "demo data",
				CreatedAt:  changedAt,
			})
		}
	}

	return o, nil
}

func (g *LedgerGenerator) persist(ctx context.Context, o *order.Order) error {
	for attempt := 0; attempt < 5; attempt++ {
		o.OrderNumber = g.generate(o.CreatedAt)
		err := g.orders.Create(ctx, o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, order.ErrDuplicateOrderNumber) {
			return err
		}
	}
	return fmt.Errorf("failed to allocate order number: %w", order.ErrDuplicateOrderNumber)
}
