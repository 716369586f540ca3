// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/cart"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/user"
	"github.com/sirupsen/logrus"
)

// respondError maps the domain error taxonomy onto HTTP. failure is the
// generic message shown for persistence and unexpected errors; internal
// details are only logged.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error, failure string) {
	if vErr, ok := shared.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": vErr.Message,
			"field":   vErr.Field,
		})
		return
	}

	var pErr *shared.PersistenceError
	if errors.As(err, &pErr) {
		logger.WithError(err).WithField("path", c.FullPath()).Error("persistence failure")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   failure,
			"retryable": pErr.Retryable(),
		})
		return
	}

	switch {
	case errors.Is(err, cart.ErrStockExceeded):
		c.JSON(http.StatusConflict, gin.H{
			"error": cart.ErrStockExceeded.Message,
			"code":  cart.ErrStockExceeded.Code,
		})
		return
	case order.IsLifecycleError(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid status",
			"details": err.Error(),
		})
		return
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": user.ErrInvalidCredentials.Message})
		return
	}

	if dErr, ok := shared.AsDomainError(err); ok {
		switch dErr {
		case order.ErrOrderNotFound, product.ErrProductNotFound, product.ErrCategoryNotFound, user.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": dErr.Message})
			return
		case product.ErrCategoryInUse, product.ErrSlugTaken:
			c.JSON(http.StatusConflict, gin.H{"error": dErr.Message, "code": dErr.Code})
			return
		}
	}

	logger.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
	if failure == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": failure,
	})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
