package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed" // analytics vocabulary
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order is immutable once created except for Status, PaymentStatus and
// Notes, which admins may overwrite.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"index;not null" json:"user_id"`
	User            *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus   string      `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod   string      `json:"payment_method"`
	ShippingAddress string      `json:"shipping_address"`
	ShippingMethod  string      `json:"shipping_method"`
	TransactionID   *string     `json:"transaction_id"` // set by the external payment integration
	OrderRef        string      `gorm:"uniqueIndex" json:"order_ref"`
	Notes           *string     `json:"notes"`
	CreatedAt       time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	OrderID          uint            `gorm:"index" json:"order_id"`
	ProductVariantID uint            `json:"product_variant_id"`
	ProductVariant   *ProductVariant `gorm:"foreignKey:ProductVariantID" json:"product_variant,omitempty"`
	Quantity         int             `json:"quantity"`
	Price            float64         `json:"price"`
	Subtotal         float64         `json:"subtotal"` // price * quantity, persisted at checkout
}
