// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus represents payment status, independent of fulfillment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMethod is recorded on the order but never settled by the backend
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBkash          PaymentMethod = "bkash"
	PaymentMethodNagad          PaymentMethod = "nagad"
	PaymentMethodRocket         PaymentMethod = "rocket"
)

// IsMobileWallet reports whether the method needs a wallet number
func (m PaymentMethod) IsMobileWallet() bool {
	return m == PaymentMethodBkash || m == PaymentMethodNagad || m == PaymentMethodRocket
}

// Order is an append-only ledger entry. It is never deleted.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null;size:32" json:"orderNumber"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	Email           string          `gorm:"size:255" json:"email,omitempty"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shippingCost"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	PaymentMethod PaymentMethod `gorm:"not null;size:32" json:"paymentMethod"`
	PaymentNumber string        `gorm:"size:20" json:"paymentNumber,omitempty"`
	PaymentStatus PaymentStatus `gorm:"not null;size:16;default:'pending';index" json:"paymentStatus"`
	OrderStatus   OrderStatus   `gorm:"not null;size:16;default:'pending';index" json:"orderStatus"`

	Notes          string     `gorm:"size:500" json:"notes,omitempty"`
	TrackingNumber string     `gorm:"size:100" json:"trackingNumber,omitempty"`
	CancelReason   string     `gorm:"size:200" json:"cancelReason,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"statusHistory,omitempty"`
}

// ShippingAddress is embedded in Order
type ShippingAddress struct {
	Name       string `gorm:"size:100;not null" json:"name"`
	Phone      string `gorm:"size:20;not null;index" json:"phone"`
	Address    string `gorm:"size:255;not null" json:"address"`
	District   string `gorm:"size:100;not null" json:"district"`
	Area       string `gorm:"size:100" json:"area,omitempty"`
	Landmark   string `gorm:"size:255" json:"landmark,omitempty"`
	PostalCode string `gorm:"size:20" json:"postalCode,omitempty"`
}

// OrderItem is a price snapshot taken at checkout, decoupled from the live catalog
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   uint            `gorm:"not null;index" json:"-"`
	ProductID uint            `gorm:"not null;index" json:"productId"`
	Name      string          `gorm:"not null;size:200" json:"name"`
	Image     string          `gorm:"size:500" json:"image,omitempty"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
}

// StatusHistory tracks accepted fulfillment status changes
type StatusHistory struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    uint        `gorm:"not null;index" json:"-"`
	FromStatus OrderStatus `gorm:"size:16" json:"fromStatus"`
	ToStatus   OrderStatus `gorm:"size:16;not null" json:"toStatus"`
	Comment    string      `gorm:"type:text" json:"comment,omitempty"`
	ChangedBy  uint        `gorm:"index" json:"changedBy"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (OrderItem) TableName() string     { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }

// CustomerKey is the (name, phone) identity used in place of accounts
type CustomerKey struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CustomerKey returns the order's customer identity
func (o *Order) CustomerKey() CustomerKey {
	return CustomerKey{Name: o.ShippingAddress.Name, Phone: o.ShippingAddress.Phone}
}

// NewOrderItem snapshots a line and derives its total
func NewOrderItem(productID uint, name, image string, price decimal.Decimal, quantity int) OrderItem {
	return OrderItem{
		ProductID: productID,
		Name:      name,
		Image:     image,
		Price:     price,
		Quantity:  quantity,
		Total:     price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// ItemsSubtotal sums the line totals
func (o *Order) ItemsSubtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Total)
	}
	return subtotal
}
