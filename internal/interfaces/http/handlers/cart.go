// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/cart"
	"github.com/sirupsen/logrus"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
	logger      logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, cfg *config.Config, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		config:      cfg,
		logger:      logger,
	}
}

// AddItemRequest is the body of POST /cart/items
type AddItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
}

// UpdateQuantityRequest is the body of PUT /cart/items/:productId
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	snapshot, err := h.cartService.GetCart(c.Request.Context(), h.sessionID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "productId is required",
			"field":   "productId",
		})
		return
	}

	snapshot, err := h.cartService.AddItem(c.Request.Context(), h.sessionID(c), req.ProductID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item added to cart",
		"data":    snapshot,
	})
}

// UpdateQuantity handles PUT /cart/items/:productId. A quantity of zero or
// less removes the line.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "quantity is required",
			"field":   "quantity",
		})
		return
	}

	snapshot, err := h.cartService.UpdateQuantity(c.Request.Context(), h.sessionID(c), productID, *req.Quantity)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	snapshot, err := h.cartService.RemoveItem(c.Request.Context(), h.sessionID(c), productID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	snapshot, err := h.cartService.Clear(c.Request.Context(), h.sessionID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart cleared",
		"data":    snapshot,
	})
}

// sessionID reads the session cookie, issuing a new one on first use
func (h *CartHandler) sessionID(c *gin.Context) string {
	return sessionFromCookie(c, h.config)
}

// sessionFromCookie reads the cart session cookie, issuing one on first use
func sessionFromCookie(c *gin.Context, cfg *config.Config) string {
	name := sessionCookieName(cfg)

	sessionID, err := c.Cookie(name)
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		maxAge := int(cfg.Cart.SessionTTL.Seconds())
		if maxAge <= 0 {
			maxAge = 86400
		}
		c.SetCookie(name, sessionID, maxAge, "/", "", cfg.IsProduction(), true)
	}

	return sessionID
}

// sessionCookieName is the cookie both the cart and checkout read, so a
// placed order clears the cart the shopper was filling
func sessionCookieName(cfg *config.Config) string {
	if cfg != nil && cfg.Cart.CookieName != "" {
		return cfg.Cart.CookieName
	}
	return "session_id"
}
