package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// UpdateStatusRequest moves the fulfillment status forward.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// UpdatePaymentStatusRequest moves the payment status.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending processing paid refunded failed"`
}

// UpdateNotesRequest overwrites the order notes; empty clears them.
type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// ItemResponse is one order line.
type ItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     *uuid.UUID      `json:"productId,omitempty"`
	ProductNameEn string          `json:"productNameEn"`
	ProductNameAr string          `json:"productNameAr"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// ShipToResponse is the shipping snapshot taken at checkout.
type ShipToResponse struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Line1   string  `json:"line1"`
	Line2   *string `json:"line2,omitempty"`
	City    string  `json:"city"`
	Region  *string `json:"region,omitempty"`
	Country string  `json:"country"`
}

// OrderResponse is the full order view.
type OrderResponse struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	OrderNumber    string          `json:"orderNumber"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"paymentStatus"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Currency       string          `json:"currency"`
	CustomerName   string          `json:"customerName"`
	CustomerEmail  string          `json:"customerEmail"`
	CustomerPhone  *string         `json:"customerPhone,omitempty"`
	ShippingMethod *string         `json:"shippingMethod,omitempty"`
	PaymentMethod  *string         `json:"paymentMethod,omitempty"`
	ShipTo         ShipToResponse  `json:"shipTo"`
	Notes          *string         `json:"notes,omitempty"`
	Items          []ItemResponse  `json:"items"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ListResponse is a cursor page of orders.
type ListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

// StatsResponse is the order slice of the admin dashboard.
type StatsResponse struct {
	TotalOrders   int64           `json:"totalOrders"`
	PendingOrders int64           `json:"pendingOrders"`
	PaidRevenue   decimal.Decimal `json:"paidRevenue"`
}

// NewOrderResponse projects a model into its API shape.
func NewOrderResponse(o *models.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductNameEn: item.ProductNameEn,
			ProductNameAr: item.ProductNameAr,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Subtotal:      item.Subtotal,
		})
	}
	return OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status.String(),
		PaymentStatus:  o.PaymentStatus.String(),
		TotalAmount:    o.TotalAmount,
		Currency:       o.Currency,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		ShippingMethod: o.ShippingMethod,
		PaymentMethod:  o.PaymentMethod,
		ShipTo: ShipToResponse{
			Name:    o.ShipToName,
			Phone:   o.ShipToPhone,
			Line1:   o.ShipToLine1,
			Line2:   o.ShipToLine2,
			City:    o.ShipToCity,
			Region:  o.ShipToRegion,
			Country: o.ShipToCountry,
		},
		Notes:     o.Notes,
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
