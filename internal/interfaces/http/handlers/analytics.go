// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/analytics"
	"github.com/sirupsen/logrus"
)

// AnalyticsHandler handles admin reporting endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	logger           logrus.FieldLogger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service, logger logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetAnalytics handles GET /admin/analytics?range=7d|30d|90d|1y
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	snapshot, err := h.analyticsService.GetAnalytics(c.Request.Context(), c.Query("range"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch analytics data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

// GetDashboard handles GET /admin/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch dashboard data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard,
	})
}

// GetCustomers handles GET /admin/customers
func (h *AnalyticsHandler) GetCustomers(c *gin.Context) {
	var req analytics.CustomerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	customers, err := h.analyticsService.GetCustomers(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}
