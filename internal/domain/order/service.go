// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Service drives the order lifecycle after creation
type Service struct {
	repo    *Repository
	config  *config.Config
	logger  logrus.FieldLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates a new order service
func NewService(repo *Repository, cfg *config.Config, logger logrus.FieldLogger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		config:  cfg,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// GetOrder retrieves an order by storage id or order number
func (s *Service) GetOrder(ctx context.Context, ref string) (*Order, error) {
	return s.repo.FindByRef(ctx, ref)
}

// ListOrders retrieves a page of orders for the admin panel
func (s *Service) ListOrders(ctx context.Context, req ListRequest) (*ListResponse, error) {
	return s.repo.List(ctx, req)
}

// UpdateOrder applies a status and/or payment update on behalf of actorID
func (s *Service) UpdateOrder(ctx context.Context, ref string, req UpdateRequest, actorID uint) (*Order, error) {
	var change *StatusChange

	updated, err := s.repo.Mutate(ctx, ref, func(o *Order) (*StatusHistory, error) {
		var err error
		change, err = Apply(o, req, s.now().UTC())
		if err != nil {
			return nil, err
		}
		if change == nil {
			return nil, nil
		}

		comment := req.Comment
		if comment == "" {
			comment = fmt.Sprintf("Status changed from %s to %s", change.From, change.To)
		}
		return &StatusHistory{
			FromStatus: change.From,
			ToStatus:   change.To,
			Comment:    comment,
			ChangedBy:  actorID,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if change != nil {
		if s.metrics != nil {
			s.metrics.OrderTransitions.WithLabelValues(string(change.From), string(change.To)).Inc()
		}
		s.logger.WithFields(logrus.Fields{
			"order_number": updated.OrderNumber,
			"from":         change.From,
			"to":           change.To,
			"actor_id":     actorID,
		}).Info("order status changed")
	}

	return updated, nil
}
