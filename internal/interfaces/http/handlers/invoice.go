// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/pdf"
	"github.com/sirupsen/logrus"
)

// InvoiceRenderer produces a printable invoice for an order
type InvoiceRenderer interface {
	GenerateInvoice(o *order.Order) (*bytes.Buffer, error)
}

// InvoiceHandler handles invoice downloads
type InvoiceHandler struct {
	orderService *order.Service
	renderer     InvoiceRenderer
	logger       logrus.FieldLogger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orderService *order.Service, renderer InvoiceRenderer, logger logrus.FieldLogger) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: orderService,
		renderer:     renderer,
		logger:       logger,
	}
}

// GenerateInvoice handles GET /orders/:id/invoice
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	o, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	buf, err := h.renderer.GenerateInvoice(o)
	if err != nil {
		h.logger.WithError(err).WithField("order_number", o.OrderNumber).Error("invoice generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", pdf.InvoiceFilename(o)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
