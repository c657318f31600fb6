package paymentmethods

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
)

// PaymentMethodRequest creates or replaces a saved payment method. Only
// display-safe card attributes are accepted; the backend never sees a PAN.
type PaymentMethodRequest struct {
	Type         string `json:"type" validate:"omitempty,oneof=card cod bank_transfer"`
	HolderName   string `json:"holderName" validate:"omitempty,max=150"`
	CardBrand    string `json:"cardBrand" validate:"omitempty,max=30"`
	CardLast4    string `json:"cardLast4" validate:"omitempty,len=4,numeric"`
	CardExpMonth *int   `json:"cardExpMonth" validate:"omitempty,min=1,max=12"`
	CardExpYear  *int   `json:"cardExpYear" validate:"omitempty,min=2024,max=2100"`
	IsDefault    bool   `json:"isDefault"`
}

// PaymentMethodResponse is the API projection of a saved method.
type PaymentMethodResponse struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	HolderName   *string   `json:"holderName,omitempty"`
	CardBrand    *string   `json:"cardBrand,omitempty"`
	CardLast4    *string   `json:"cardLast4,omitempty"`
	CardExpMonth *int      `json:"cardExpMonth,omitempty"`
	CardExpYear  *int      `json:"cardExpYear,omitempty"`
	IsDefault    bool      `json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r PaymentMethodRequest) ToModel(userID uuid.UUID) *models.PaymentMethod {
	methodType := strings.TrimSpace(r.Type)
	if methodType == "" {
		methodType = "card"
	}
	method := &models.PaymentMethod{
		UserID:       userID,
		Type:         methodType,
		CardExpMonth: r.CardExpMonth,
		CardExpYear:  r.CardExpYear,
		IsDefault:    r.IsDefault,
	}
	method.HolderName = optional(r.HolderName)
	method.CardBrand = optional(r.CardBrand)
	method.CardLast4 = optional(r.CardLast4)
	return method
}

func NewPaymentMethodResponse(m *models.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:           m.ID,
		Type:         m.Type,
		HolderName:   m.HolderName,
		CardBrand:    m.CardBrand,
		CardLast4:    m.CardLast4,
		CardExpMonth: m.CardExpMonth,
		CardExpYear:  m.CardExpYear,
		IsDefault:    m.IsDefault,
		CreatedAt:    m.CreatedAt,
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
