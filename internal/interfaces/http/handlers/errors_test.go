package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/cart"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/user"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "validation",
			err:    shared.NewValidationError("customer.phone", "Must be a valid Bangladeshi mobile number"),
			status: http.StatusBadRequest,
			body:   `{"success":false,"message":"Must be a valid Bangladeshi mobile number","field":"customer.phone"}`,
		},
		{
			name:   "stock exceeded",
			err:    &cart.StockExceededError{ProductID: 1, Requested: 4, Stock: 3},
			status: http.StatusConflict,
			body:   `{"error":"Stock limit reached","code":"STOCK_EXCEEDED"}`,
		},
		{
			name:   "order not found",
			err:    fmt.Errorf("lookup: %w", order.ErrOrderNotFound),
			status: http.StatusNotFound,
			body:   `{"error":"Order not found"}`,
		},
		{
			name:   "product not found",
			err:    product.ErrProductNotFound,
			status: http.StatusNotFound,
			body:   `{"error":"Product not found"}`,
		},
		{
			name:   "category in use",
			err:    product.ErrCategoryInUse,
			status: http.StatusConflict,
			body:   `{"error":"Cannot delete category with existing products","code":"CATEGORY_IN_USE"}`,
		},
		{
			name:   "invalid status value",
			err:    fmt.Errorf("order status %q: %w", "bogus", order.ErrInvalidStatusValue),
			status: http.StatusBadRequest,
		},
		{
			name:   "backward transition",
			err:    &order.InvalidTransitionError{From: order.OrderStatusShipped, To: order.OrderStatusPending},
			status: http.StatusBadRequest,
		},
		{
			name:   "bad credentials",
			err:    user.ErrInvalidCredentials,
			status: http.StatusUnauthorized,
			body:   `{"error":"Invalid email or password"}`,
		},
		{
			name:   "persistence",
			err:    shared.NewPersistenceError("create order", errors.New("connection reset")),
			status: http.StatusInternalServerError,
			body:   `{"success":false,"message":"Failed to create order","retryable":true}`,
		},
		{
			name:   "exhausted order numbers surface as persistence",
			err:    shared.NewPersistenceError("create order", fmt.Errorf("no unique number: %w", order.ErrDuplicateOrderNumber)),
			status: http.StatusInternalServerError,
			body:   `{"success":false,"message":"Failed to create order","retryable":true}`,
		},
		{
			name:   "unexpected",
			err:    errors.New("pq: relation \"orders\" does not exist"),
			status: http.StatusInternalServerError,
			body:   `{"success":false,"message":"Failed to create order"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodPost, "/orders", nil)

			respondError(c, logger.Discard(), tt.err, "Failed to create order")

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestRespondError_UnexpectedWithoutFailureMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/orders/1", nil)

	respondError(c, logger.Discard(), errors.New("dial tcp 10.0.0.5:5432: connection refused"), "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestRespondError_LifecycleBody(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPatch, "/orders/1", nil)

	respondError(c, logger.Discard(), &order.InvalidTransitionError{From: order.OrderStatusDelivered, To: order.OrderStatusCancelled}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Invalid status"`)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		param string
		id    uint
		ok    bool
	}{
		{"7", 7, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Params = gin.Params{{Key: "id", Value: tt.param}}
			id, ok := parseID(c, "id")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}
