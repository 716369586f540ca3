// internal/domain/order/lifecycle.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
)

var (
	ErrOrderNotFound        = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrInvalidTransition    = shared.NewDomainError("INVALID_TRANSITION", "Invalid status transition")
	ErrInvalidStatusValue   = shared.NewDomainError("INVALID_STATUS", "Invalid status")
	ErrDuplicateOrderNumber = shared.NewDomainError("DUPLICATE_ORDER_NUMBER", "Order number already exists")
)

// InvalidTransitionError carries the rejected move
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Is makes errors.Is(err, ErrInvalidTransition) match
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// pipeline position of each non-cancelled status
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// IsValid reports whether s is one of the enumerated statuses
func (s OrderStatus) IsValid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminal reports whether no transition may leave s
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo allows forward moves along the pipeline and cancel from any
// non-terminal state. Skipping ahead is permitted.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() || !target.IsValid() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	return statusRank[target] > statusRank[s]
}

// IsValid reports whether p is one of the enumerated payment statuses
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// UpdateRequest is a partial update. Nil fields are left alone.
type UpdateRequest struct {
	OrderStatus    *string `json:"orderStatus"`
	PaymentStatus  *string `json:"paymentStatus"`
	Notes          *string `json:"notes"`
	TrackingNumber *string `json:"trackingNumber"`
	CancelReason   *string `json:"cancelReason"`
	Comment        string  `json:"comment"`
}

const (
	maxNotesLength        = 500
	maxCancelReasonLength = 200
)

// StatusChange describes an accepted fulfillment move
type StatusChange struct {
	From OrderStatus
	To   OrderStatus
}

// Apply validates the whole request and only then mutates o. It returns the
// fulfillment change, or nil when orderStatus did not move. Resubmitting the
// current status is a no-op on that axis.
func Apply(o *Order, req UpdateRequest, now time.Time) (*StatusChange, error) {
	var (
		target     OrderStatus
		hasTarget  bool
		payment    PaymentStatus
		hasPayment bool
	)

	if req.OrderStatus != nil {
		target = OrderStatus(strings.TrimSpace(*req.OrderStatus))
		if !target.IsValid() {
			return nil, fmt.Errorf("order status %q: %w", target, ErrInvalidStatusValue)
		}
		if target != o.OrderStatus {
			if !o.OrderStatus.CanTransitionTo(target) {
				return nil, &InvalidTransitionError{From: o.OrderStatus, To: target}
			}
			hasTarget = true
		}
	}

	if req.PaymentStatus != nil {
		payment = PaymentStatus(strings.TrimSpace(*req.PaymentStatus))
		if !payment.IsValid() {
			return nil, fmt.Errorf("payment status %q: %w", payment, ErrInvalidStatusValue)
		}
		hasPayment = true
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > maxNotesLength {
		return nil, shared.NewValidationError("notes", fmt.Sprintf("must be at most %d characters", maxNotesLength))
	}
	if req.CancelReason != nil && len([]rune(*req.CancelReason)) > maxCancelReasonLength {
		return nil, shared.NewValidationError("cancelReason", fmt.Sprintf("must be at most %d characters", maxCancelReasonLength))
	}

	var change *StatusChange
	if hasTarget {
		change = &StatusChange{From: o.OrderStatus, To: target}
		o.OrderStatus = target
		switch target {
		case OrderStatusDelivered:
			o.DeliveredAt = &now
		case OrderStatusCancelled:
			o.CancelledAt = &now
		}
	}
	if hasPayment {
		o.PaymentStatus = payment
	}
	if req.Notes != nil {
		o.Notes = *req.Notes
	}
	if req.TrackingNumber != nil {
		o.TrackingNumber = strings.TrimSpace(*req.TrackingNumber)
	}
	if req.CancelReason != nil {
		o.CancelReason = strings.TrimSpace(*req.CancelReason)
	}
	o.UpdatedAt = now

	return change, nil
}

// IsLifecycleError reports whether err belongs to the status taxonomy
func IsLifecycleError(err error) bool {
	return errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrInvalidStatusValue)
}
