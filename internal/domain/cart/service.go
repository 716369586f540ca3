// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Catalog resolves live product data for new cart lines
type Catalog interface {
	LookupProduct(ctx context.Context, id uint) (*product.Product, error)
}

// Service manages one Store per shopping session
type Service struct {
	storage Storage
	catalog Catalog
	config  *config.Config
	logger  logrus.FieldLogger
	metrics *metrics.Metrics

	mu     sync.Mutex
	stores map[string]*Store
}

// NewService creates a new cart service
func NewService(storage Storage, catalog Catalog, cfg *config.Config, logger logrus.FieldLogger, m *metrics.Metrics) *Service {
	return &Service{
		storage: storage,
		catalog: catalog,
		config:  cfg,
		logger:  logger,
		metrics: m,
		stores:  make(map[string]*Store),
	}
}

// Open returns the session's store, rehydrating it from storage on first use.
// The registry lock is never held across a storage read; when two requests
// rehydrate the same session concurrently the first one registered wins.
func (s *Service) Open(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	store, ok := s.stores[sessionID]
	s.mu.Unlock()
	if ok {
		return store, nil
	}

	fresh := NewStore(sessionID, s.storage, s.logger)
	if err := fresh.Rehydrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to rehydrate cart: %w", err)
	}

	s.mu.Lock()
	if existing, ok := s.stores[sessionID]; ok {
		s.mu.Unlock()
		fresh.Close()
		return existing, nil
	}
	if s.metrics != nil {
		fresh.Subscribe(func(snap Snapshot) {
			s.metrics.CartMutations.WithLabelValues(snap.Command).Inc()
		})
	}
	s.stores[sessionID] = fresh
	s.mu.Unlock()

	return fresh, nil
}

// GetCart returns the session's current cart
func (s *Service) GetCart(ctx context.Context, sessionID string) (Snapshot, error) {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return store.Snapshot(), nil
}

// AddItem adds one unit of a catalog product to the session's cart
func (s *Service) AddItem(ctx context.Context, sessionID string, productID uint) (Snapshot, error) {
	prod, err := s.catalog.LookupProduct(ctx, productID)
	if err != nil {
		return Snapshot{}, err
	}

	return s.dispatch(ctx, sessionID, AddItem{Item: CartItem{
		ProductID: prod.ID,
		Name:      prod.Name,
		Price:     prod.Price,
		Image:     prod.PrimaryImage(),
		Stock:     prod.Stock,
	}})
}

// UpdateQuantity sets a line's quantity
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID uint, quantity int) (Snapshot, error) {
	return s.dispatch(ctx, sessionID, UpdateQuantity{ProductID: productID, Quantity: quantity})
}

// RemoveItem deletes a line
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID uint) (Snapshot, error) {
	return s.dispatch(ctx, sessionID, RemoveItem{ProductID: productID})
}

// Clear empties the cart and erases its persisted copy
func (s *Service) Clear(ctx context.Context, sessionID string) (Snapshot, error) {
	return s.dispatch(ctx, sessionID, Clear{})
}

func (s *Service) dispatch(ctx context.Context, sessionID string, cmd Command) (Snapshot, error) {
	for attempt := 0; attempt < 2; attempt++ {
		store, err := s.Open(ctx, sessionID)
		if err != nil {
			return Snapshot{}, err
		}

		snap, err := store.Dispatch(ctx, cmd)
		if errors.Is(err, errStoreClosed) {
			// evicted between Open and Dispatch; reopen from storage
			continue
		}
		if errors.Is(err, ErrStockExceeded) && s.metrics != nil {
			s.metrics.StockRejections.Inc()
		}
		return snap, err
	}
	return Snapshot{}, fmt.Errorf("cart session %s unavailable", sessionID)
}

// EndSession tears down a session's store. Persisted state is kept.
func (s *Service) EndSession(sessionID string) {
	s.mu.Lock()
	store, ok := s.stores[sessionID]
	delete(s.stores, sessionID)
	s.mu.Unlock()

	if ok {
		store.Close()
	}
}

// ActiveSessions returns the number of open stores
func (s *Service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// EvictIdle closes stores untouched for longer than the session TTL
func (s *Service) EvictIdle(now time.Time) int {
	cutoff := now.Add(-s.config.Cart.SessionTTL)

	s.mu.Lock()
	var idle []*Store
	for id, store := range s.stores {
		if store.IdleSince().Before(cutoff) {
			idle = append(idle, store)
			delete(s.stores, id)
		}
	}
	s.mu.Unlock()

	for _, store := range idle {
		store.Close()
	}
	return len(idle)
}

// Run evicts idle sessions until ctx is cancelled
func (s *Service) Run(ctx context.Context) {
	period := s.config.Cart.JanitorPeriod
	if period <= 0 {
		period = 10 * time.Minute
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.EvictIdle(now); n > 0 {
				s.logger.WithField("evicted", n).Debug("evicted idle cart sessions")
			}
		}
	}
}
