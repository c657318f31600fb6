package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRequest is one checkout line. Clients may echo the prices they saw;
// the stored snapshot always comes from the catalog.
type ItemRequest struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1,max=999"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ShipToRequest is the shipping destination snapshot.
type ShipToRequest struct {
	Name    string `json:"name" validate:"required,max=150"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Line1   string `json:"line1" validate:"required,max=200"`
	Line2   string `json:"line2" validate:"omitempty,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	Region  string `json:"region" validate:"omitempty,max=100"`
	Country string `json:"country" validate:"omitempty,len=2,alpha"`
}

// CheckoutRequest creates an order. Guests must supply customer contact
// details; authenticated users fall back to their profile.
type CheckoutRequest struct {
	Items          []ItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName   string        `json:"customerName" validate:"omitempty,max=150"`
	CustomerEmail  string        `json:"customerEmail" validate:"omitempty,email,max=255"`
	CustomerPhone  string        `json:"customerPhone" validate:"omitempty,max=30"`
	ShipTo         ShipToRequest `json:"shipTo" validate:"required"`
	ShippingMethod string        `json:"shippingMethod" validate:"omitempty,max=50"`
	PaymentMethod  string        `json:"paymentMethod" validate:"omitempty,max=50"`
	Notes          string        `json:"notes" validate:"omitempty,max=1000"`

	// Client-side totals are accepted but never trusted; see buildItems.
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency" validate:"omitempty,len=3,alpha"`
}

// ItemResponse is one line of the created order.
type ItemResponse struct {
	ProductID     *uuid.UUID      `json:"productId,omitempty"`
	ProductNameEn string          `json:"productNameEn"`
	ProductNameAr string          `json:"productNameAr"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// CheckoutResponse confirms the created order.
type CheckoutResponse struct {
	OrderID       uuid.UUID       `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Currency      string          `json:"currency"`
	Items         []ItemResponse  `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
}
