package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/cart"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/checkout"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
)

type stubOrders struct {
	err   error
	calls int
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	o.ID = uint(s.calls)
	return nil
}

type stubPriceBook struct{ err error }

func (s stubPriceBook) LookupProduct(context.Context, uint) (*product.Product, error) {
	return nil, s.err
}

const validOrderBody = `{
	"items": [{"productId": 1, "name": "Mug", "price": 500, "quantity": 1}],
	"customer": {"firstName": "Rahim", "lastName": "Uddin", "phone": "01712345678"},
	"shipping": {"address": "House 12, Road 5", "city": "Dhanmondi", "district": "Dhaka"},
	"payment": {"method": "cod"}
}`

func newCheckoutRouter(store checkout.OrderStore, opts ...checkout.Option) *gin.Engine {
	cfg := &config.Config{
		Commerce: config.CommerceConfig{FreeShippingThreshold: 1000, FlatShippingFee: 60, OrderNumberPrefix: "TP"},
	}
	svc := checkout.NewService(store, cfg, logger.Discard(), nil, opts...)
	h := NewCheckoutHandler(svc, cfg, logger.Discard())

	r := gin.New()
	r.POST("/orders", h.PlaceOrder)
	return r
}

func postOrder(r http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutHandler_PlaceOrderFailures(t *testing.T) {
	tests := []struct {
		name   string
		store  *stubOrders
		opts   []checkout.Option
		status int
		body   string
	}{
		{
			name:   "catalog unreachable",
			store:  &stubOrders{},
			opts:   []checkout.Option{checkout.WithPriceBook(stubPriceBook{err: errors.New("dial tcp 127.0.0.1:5432: connection refused")})},
			status: http.StatusInternalServerError,
			body:   `{"success":false,"message":"Failed to create order","retryable":true}`,
		},
		{
			name:   "store down",
			store:  &stubOrders{err: errors.New("connection reset by peer")},
			status: http.StatusInternalServerError,
			body:   `{"success":false,"message":"Failed to create order","retryable":true}`,
		},
		{
			name:   "unknown product",
			store:  &stubOrders{},
			opts:   []checkout.Option{checkout.WithPriceBook(stubPriceBook{err: product.ErrProductNotFound})},
			status: http.StatusNotFound,
			body:   `{"error":"Product not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postOrder(newCheckoutRouter(tt.store, tt.opts...), validOrderBody)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "dial tcp")
		})
	}
}

func TestCheckoutHandler_PlaceOrderCreated(t *testing.T) {
	store := &stubOrders{}
	rec := postOrder(newCheckoutRouter(store), validOrderBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"orderId":"TP`)
	assert.Equal(t, 1, store.calls)
}

type recordingCarts struct{ cleared []string }

func (r *recordingCarts) Clear(_ context.Context, sessionID string) (cart.Snapshot, error) {
	r.cleared = append(r.cleared, sessionID)
	return cart.Snapshot{SessionID: sessionID}, nil
}

func TestCheckoutHandler_ClearsCartFromConfiguredCookie(t *testing.T) {
	carts := &recordingCarts{}
	cfg := &config.Config{
		Commerce: config.CommerceConfig{FreeShippingThreshold: 1000, FlatShippingFee: 60, OrderNumberPrefix: "TP"},
		Cart:     config.CartConfig{CookieName: "tp_cart"},
	}
	svc := checkout.NewService(&stubOrders{}, cfg, logger.Discard(), nil, checkout.WithCartClearer(carts))
	h := NewCheckoutHandler(svc, cfg, logger.Discard())
	r := gin.New()
	r.POST("/orders", h.PlaceOrder)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(validOrderBody))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "tp_cart", Value: "sess-42"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"sess-42"}, carts.cleared)
	assert.Empty(t, rec.Header().Get("Set-Cookie"), "checkout never issues a session")
}

func TestSessionCookieName(t *testing.T) {
	assert.Equal(t, "session_id", sessionCookieName(nil))
	assert.Equal(t, "session_id", sessionCookieName(&config.Config{}))
	assert.Equal(t, "tp_cart", sessionCookieName(&config.Config{Cart: config.CartConfig{CookieName: "tp_cart"}}))
}
