// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/cart"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultMaxAttempts = 5

// OrderStore persists new orders
type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
}

// PriceBook resolves authoritative unit prices
type PriceBook interface {
	LookupProduct(ctx context.Context, id uint) (*product.Product, error)
}

// CartClearer empties a session cart after checkout
type CartClearer interface {
	Clear(ctx context.Context, sessionID string) (cart.Snapshot, error)
}

// Service is the Order Builder: it validates a checkout, prices it on the
// server and writes exactly one order.
type Service struct {
	orders      OrderStore
	priceBook   PriceBook
	carts       CartClearer
	pricing     Pricing
	generate    NumberGenerator
	maxAttempts int
	logger      logrus.FieldLogger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// Option customises the Service
type Option func(*Service)

// WithPriceBook makes catalog prices authoritative
func WithPriceBook(pb PriceBook) Option {
	return func(s *Service) { s.priceBook = pb }
}

// WithCartClearer clears the shopper's cart after a successful order
func WithCartClearer(c CartClearer) Option {
	return func(s *Service) { s.carts = c }
}

// WithNumberGenerator replaces the order number source
func WithNumberGenerator(g NumberGenerator) Option {
	return func(s *Service) { s.generate = g }
}

// NewService creates a new checkout service
func NewService(orders OrderStore, cfg *config.Config, logger logrus.FieldLogger, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		orders:      orders,
		pricing:     DefaultPricing,
		generate:    NewNumberGenerator("TP"),
		maxAttempts: defaultMaxAttempts,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}

	if cfg != nil {
		s.pricing = Pricing{
			FreeShippingThreshold: decimal.NewFromFloat(cfg.Commerce.FreeShippingThreshold),
			FlatShippingFee:       decimal.NewFromFloat(cfg.Commerce.FlatShippingFee),
		}
		s.generate = NewNumberGenerator(cfg.Commerce.OrderNumberPrefix)
		if cfg.Commerce.OrderNumberMaxAttempts > 0 {
			s.maxAttempts = cfg.Commerce.OrderNumberMaxAttempts
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates req, recomputes every amount and persists the order.
// Stock is checked by the cart but not decremented here.
func (s *Service) PlaceOrder(ctx context.Context, req *CreateOrderRequest, sessionID string) (*order.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	draft := BuildOrder(req, items, s.pricing)

	created, err := s.persist(ctx, draft)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.WithLabelValues(string(created.PaymentMethod)).Inc()
	}
	s.logger.WithFields(logrus.Fields{
		"order_number":   created.OrderNumber,
		"total":          created.Total.StringFixed(2),
		"payment_method": created.PaymentMethod,
		"items":          len(created.Items),
	}).Info("order created")

	if s.carts != nil && sessionID != "" {
		if _, err := s.carts.Clear(ctx, sessionID); err != nil {
			s.logger.WithError(err).WithField("session_id", sessionID).Warn("failed to clear cart after order creation")
		}
	}

	return created, nil
}

// Quote prices the lines without persisting anything
func (s *Service) Quote(ctx context.Context, inputs []ItemInput) (Totals, error) {
	if len(inputs) == 0 {
		return Totals{}, shared.NewValidationError("items", "Cart is empty")
	}
	items, err := s.priceItems(ctx, inputs)
	if err != nil {
		return Totals{}, err
	}
	return s.pricing.ComputeTotals(items), nil
}

// priceItems snapshots each line. With a price book the catalog's price and
// name win over whatever the client sent.
func (s *Service) priceItems(ctx context.Context, inputs []ItemInput) ([]order.OrderItem, error) {
	items := make([]order.OrderItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Quantity < 1 {
			return nil, shared.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "Must be at least 1")
		}

		name, image, price := in.Name, in.Image, in.Price
		if s.priceBook != nil {
			prod, err := s.priceBook.LookupProduct(ctx, in.ProductID)
			if err != nil {
				if errors.Is(err, product.ErrProductNotFound) {
					return nil, err
				}
				return nil, shared.NewPersistenceError("lookup product", err)
			}
			name, price = prod.Name, prod.Price
			if img := prod.PrimaryImage(); img != "" {
				image = img
			}
		}

		items = append(items, order.NewOrderItem(in.ProductID, name, image, shared.Round2(price), in.Quantity))
	}
	return items, nil
}

// persist writes the draft, regenerating the order number on collision
func (s *Service) persist(ctx context.Context, draft *order.Order) (*order.Order, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		candidate := cloneDraft(draft)
		candidate.OrderNumber = s.generate(s.now())

		err := s.orders.Create(ctx, candidate)
		if err == nil {
			return candidate, nil
		}

		if errors.Is(err, order.ErrDuplicateOrderNumber) {
			if s.metrics != nil {
				s.metrics.OrderNumberRetries.Inc()
			}
			s.logger.WithFields(logrus.Fields{
				"order_number": candidate.OrderNumber,
				"attempt":      attempt,
			}).Warn("order number collision, regenerating")
			continue
		}

		return nil, shared.NewPersistenceError("create order", err)
	}

	return nil, shared.NewPersistenceError("create order",
		fmt.Errorf("no unique order number after %d attempts: %w", s.maxAttempts, order.ErrDuplicateOrderNumber))
}

func cloneDraft(draft *order.Order) *order.Order {
	c := *draft
	c.Items = make([]order.OrderItem, len(draft.Items))
	copy(c.Items, draft.Items)
	return &c
}
