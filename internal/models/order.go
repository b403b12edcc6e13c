package models

import "time"

// Order lifecycle states.
const (
	OrderStatusPending   = "Pending"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Payment states carried on the order.
const (
	PaymentStatusPaid    = "Paid"
	PaymentStatusPending = "Pending"
	PaymentStatusFailed  = "Failed"
)

// Payment methods a customer may choose at checkout.
const (
	PaymentMethodEsewa  = "Esewa"
	PaymentMethodCOD    = "Cash on Delivery"
	PaymentMethodKhalti = "Khalti"
)

// BillingAddress is the shipping/billing address block of an order.
type BillingAddress struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// BillingInfo is captured once at order creation and never mutated.
type BillingInfo struct {
	Name          string         `json:"name" validate:"required"`
	Email         string         `json:"email" validate:"required,email"`
	Phone         string         `json:"phone" validate:"required"`
	Address       BillingAddress `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	PaymentMethod string         `json:"paymentMethod" validate:"required"`
}

// OrderItem is a frozen snapshot of a cart line: the price is the product
// price at purchase time, independent of later catalog changes.
type OrderItem struct {
	ID        uint     `json:"-" gorm:"primaryKey"`
	OrderID   string   `json:"-" gorm:"type:varchar(36);index"`
	ProductID string   `json:"product" gorm:"type:varchar(36)"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Product   *Product `json:"productDetails,omitempty" gorm:"foreignKey:ProductID;references:ID"`
}

// Order is an immutable record of a purchase. Only Status and PaymentStatus
// transition after creation, via confirm/cancel and payment verification.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string      `json:"user" gorm:"type:varchar(36);index"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Status        string      `json:"status"`
	TotalAmount   float64     `json:"totalAmount"`
	BillingInfo   BillingInfo `json:"billingInfo" gorm:"embedded;embeddedPrefix:billing_"`
	PaymentStatus string      `json:"paymentStatus"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
