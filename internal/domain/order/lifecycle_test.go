package order

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

var allStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	pipeline := allStatuses[:5]

	for i, from := range pipeline {
		for j, to := range pipeline {
			want := from != OrderStatusDelivered && j > i
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	t.Run("cancel from any non-terminal state", func(t *testing.T) {
		for _, from := range pipeline[:4] {
			assert.True(t, from.CanTransitionTo(OrderStatusCancelled), from)
		}
	})

	t.Run("terminal states accept nothing", func(t *testing.T) {
		for _, to := range allStatuses {
			assert.False(t, OrderStatusDelivered.CanTransitionTo(to), to)
			assert.False(t, OrderStatusCancelled.CanTransitionTo(to), to)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		assert.False(t, OrderStatusPending.CanTransitionTo("refunded"))
	})
}

func TestApply(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("forward move stamps updatedAt", func(t *testing.T) {
		o := &Order{OrderStatus: OrderStatusPending, PaymentStatus: PaymentStatusPending}
		change, err := Apply(o, UpdateRequest{OrderStatus: strPtr("confirmed")}, now)
		require.NoError(t, err)
		require.NotNil(t, change)
		assert.Equal(t, OrderStatusPending, change.From)
		assert.Equal(t, OrderStatusConfirmed, change.To)
		assert.Equal(t, OrderStatusConfirmed, o.OrderStatus)
		assert.Equal(t, now, o.UpdatedAt)
	})

	t.Run("skipping ahead is allowed", func(t *testing.T) {
		o := &Order{OrderStatus: OrderStatusPending}
		_, err := Apply(o, UpdateRequest{OrderStatus: strPtr("shipped")}, now)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusShipped, o.OrderStatus)
	})

	t.Run("backward move rejected", func(t *testing.T) {
		o := &Order{OrderStatus: OrderStatusShipped}
		_, err := Apply(o, UpdateRequest{OrderStatus: strPtr("confirmed")}, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		var tErr *InvalidTransitionError
		require.True(t, errors.As(err, &tErr))
		assert.Equal(t, OrderStatusShipped, tErr.From)
		assert.Equal(t, OrderStatusConfirmed, tErr.To)
		assert.Equal(t, OrderStatusShipped, o.OrderStatus)
	})

	t.Run("out of delivered rejected", func(t *testing.T) {
		o := &Order{OrderStatus: OrderStatusDelivered}
		_, err := Apply(o, UpdateRequest{OrderStatus: strPtr("processing")}, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = Apply(o, UpdateRequest{OrderStatus: strPtr("cancelled")}, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown value rejected, not defaulted", func(t *testing.T) {
		o := &Order{OrderStatus: OrderStatusPending, PaymentStatus: PaymentStatusPending}
		_, err := Apply(o, UpdateRequest{OrderStatus: strPtr("refunded")}, now)
		assert.ErrorIs(t, err, ErrInvalidStatusValue)

		_, err = Apply(o, UpdateRequest{PaymentStatus: strPtr("settled")}, now)
		assert.ErrorIs(t, err, ErrInvalidStatusValue)
		assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	})

	t.Run("cancel stamps cancelledAt", func(t *testing.T) {
		o := &Order{OrderStatus: OrderStatusProcessing}
		_, err := Apply(o, UpdateRequest{OrderStatus: strPtr("cancelled"), CancelReason: strPtr(" customer request ")}, now)
		require.NoError(t, err)
		require.NotNil(t, o.CancelledAt)
		assert.Equal(t, "customer request", o.CancelReason)
		assert.Nil(t, o.DeliveredAt)
	})

	t.Run("payment axis is independent of fulfillment", func(t *testing.T) {
		delivered := now.Add(-time.Hour)
		o := &Order{OrderStatus: OrderStatusDelivered, PaymentStatus: PaymentStatusPending, DeliveredAt: &delivered}
		change, err := Apply(o, UpdateRequest{OrderStatus: strPtr("delivered"), PaymentStatus: strPtr("paid")}, now)
		require.NoError(t, err)
		assert.Nil(t, change)
		assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
		assert.Equal(t, delivered, *o.DeliveredAt)
	})

	t.Run("invalid request leaves order untouched", func(t *testing.T) {
		o := &Order{OrderStatus: OrderStatusPending, PaymentStatus: PaymentStatusPending}
		_, err := Apply(o, UpdateRequest{
			OrderStatus:   strPtr("confirmed"),
			PaymentStatus: strPtr("paid"),
			Notes:         strPtr(strings.Repeat("n", 501)),
		}, now)

		vErr, ok := shared.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "notes", vErr.Field)
		assert.Equal(t, OrderStatusPending, o.OrderStatus)
		assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
		assert.True(t, o.UpdatedAt.IsZero())
	})

	t.Run("cancel reason length", func(t *testing.T) {
		o := &Order{OrderStatus: OrderStatusPending}
		_, err := Apply(o, UpdateRequest{CancelReason: strPtr(strings.Repeat("r", 201))}, now)
		vErr, ok := shared.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "cancelReason", vErr.Field)
	})
}

func TestApply_ResubmittingTerminalStatusIsNoOp(t *testing.T) {
	stamped := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	now := stamped.Add(48 * time.Hour)

	tests := []struct {
		status OrderStatus
		stamp  func(o *Order) *time.Time
	}{
		{OrderStatusDelivered, func(o *Order) *time.Time { return o.DeliveredAt }},
		{OrderStatusCancelled, func(o *Order) *time.Time { return o.CancelledAt }},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			at := stamped
			o := &Order{OrderStatus: tt.status, PaymentStatus: PaymentStatusPending, DeliveredAt: &at, CancelledAt: &at}

			change, err := Apply(o, UpdateRequest{OrderStatus: strPtr(string(tt.status))}, now)
			require.NoError(t, err)
			assert.Nil(t, change, "no history row for an unchanged status")
			assert.Equal(t, tt.status, o.OrderStatus)
			assert.Equal(t, stamped, *tt.stamp(o), "terminal timestamp must not move")

			_, err = Apply(o, UpdateRequest{OrderStatus: strPtr("pending")}, now)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestIsLifecycleError(t *testing.T) {
	assert.True(t, IsLifecycleError(&InvalidTransitionError{From: OrderStatusDelivered, To: OrderStatusPending}))
	assert.True(t, IsLifecycleError(ErrInvalidStatusValue))
	assert.False(t, IsLifecycleError(ErrOrderNotFound))
}
