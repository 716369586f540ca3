// internal/domain/cart/entity.go
package cart

import (
	"fmt"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrStockExceeded is matched by every StockExceededError
var ErrStockExceeded = shared.NewDomainError("STOCK_EXCEEDED", "Stock limit reached")

// StockExceededError reports a mutation that would push a line past its stock ceiling
type StockExceededError struct {
	ProductID uint
	Requested int
	Stock     int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("product %d: requested quantity %d exceeds available stock %d", e.ProductID, e.Requested, e.Stock)
}

// Is lets errors.Is(err, ErrStockExceeded) match
func (e *StockExceededError) Is(target error) bool {
	return target == ErrStockExceeded
}

// CartItem is one basket line. Invariant: 1 <= Quantity <= Stock.
type CartItem struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
}

// LineTotal returns Price * Quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the ordered basket. Order matters for display only.
type Cart struct {
	Items []CartItem `json:"items"`
}

// TotalItems is the sum of quantities
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of quantity * unit price
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c Cart) indexOf(productID uint) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// Snapshot is the read model handed to callers and subscribers
type Snapshot struct {
	SessionID  string          `json:"sessionId"`
	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Command    string          `json:"-"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func newSnapshot(sessionID string, c Cart, command string, at time.Time) Snapshot {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Snapshot{
		SessionID:  sessionID,
		Items:      items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
		Command:    command,
		UpdatedAt:  at,
	}
}
