// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/interfaces/http/middleware"
	"github.com/sirupsen/logrus"
)

// OrderHandler handles order lookup and fulfillment updates
type OrderHandler struct {
	orderService *order.Service
	logger       logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, logger logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// GetOrder handles GET /orders/:id. The id may be the storage id or the order number.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, o)
}

// UpdateOrder handles PATCH /orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req order.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(c)

	updated, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update order")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ListOrders handles GET /admin/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
