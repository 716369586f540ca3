// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/checkout"
	"github.com/sirupsen/logrus"
)

// CheckoutHandler handles order placement
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
	logger          logrus.FieldLogger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, cfg *config.Config, logger logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		config:          cfg,
		logger:          logger,
	}
}

// QuoteRequest is the body of POST /checkout/quote
type QuoteRequest struct {
	Items []checkout.ItemInput `json:"items"`
}

// PlaceOrder handles POST /orders
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req checkout.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
			"field":   "body",
		})
		return
	}

	// only an existing cart is cleared; checkout never issues a session
	sessionID, _ := c.Cookie(sessionCookieName(h.config))

	created, err := h.checkoutService.PlaceOrder(c.Request.Context(), &req, sessionID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"data": gin.H{
			"orderId":      created.OrderNumber,
			"orderDetails": created,
		},
	})
}

// Quote handles POST /checkout/quote. Nothing is persisted.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
			"field":   "body",
		})
		return
	}

	totals, err := h.checkoutService.Quote(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, h.logger, err, "Failed to price order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    totals,
	})
}
