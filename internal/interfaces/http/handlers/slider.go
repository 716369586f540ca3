// internal/interfaces/http/handlers/slider.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/sirupsen/logrus"
)

// SliderHandler serves the storefront banners
type SliderHandler struct {
	sliderService *product.SliderService
	logger        logrus.FieldLogger
}

// NewSliderHandler creates a new slider handler
func NewSliderHandler(sliderService *product.SliderService, logger logrus.FieldLogger) *SliderHandler {
	return &SliderHandler{
		sliderService: sliderService,
		logger:        logger,
	}
}

// GetSliders handles GET /sliders
func (h *SliderHandler) GetSliders(c *gin.Context) {
	sliders, err := h.sliderService.GetActiveSliders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch sliders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sliders,
	})
}
