package addresses

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
)

// AddressRequest creates or replaces an address.
type AddressRequest struct {
	Label      string `json:"label" validate:"omitempty,max=50"`
	FullName   string `json:"fullName" validate:"required,max=150"`
	Phone      string `json:"phone" validate:"required,max=30"`
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2" validate:"omitempty,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	Region     string `json:"region" validate:"omitempty,max=100"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"omitempty,len=2,alpha"`
	IsDefault  bool   `json:"isDefault"`
}

// AddressResponse is the API projection of an address row.
type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	Label      *string   `json:"label,omitempty"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2,omitempty"`
	City       string    `json:"city"`
	Region     *string   `json:"region,omitempty"`
	PostalCode *string   `json:"postalCode,omitempty"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToModel maps the request onto a persistence model owned by userID.
func (r AddressRequest) ToModel(userID uuid.UUID) *models.Address {
	country := strings.ToUpper(strings.TrimSpace(r.Country))
	if country == "" {
		country = "SA"
	}
	addr := &models.Address{
		UserID:    userID,
		FullName:  strings.TrimSpace(r.FullName),
		Phone:     strings.TrimSpace(r.Phone),
		Line1:     strings.TrimSpace(r.Line1),
		City:      strings.TrimSpace(r.City),
		Country:   country,
		IsDefault: r.IsDefault,
	}
	addr.Label = optional(r.Label)
	addr.Line2 = optional(r.Line2)
	addr.Region = optional(r.Region)
	addr.PostalCode = optional(r.PostalCode)
	return addr
}

// NewAddressResponse projects a model into its API shape.
func NewAddressResponse(a *models.Address) AddressResponse {
	return AddressResponse{
		ID:         a.ID,
		Label:      a.Label,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
