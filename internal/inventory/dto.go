package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
)

// TransactionRequest records one stock movement. Quantity is signed:
// positive for stock-in, negative for stock-out.
type TransactionRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Type      string    `json:"type" validate:"required,oneof=purchase sale return adjustment"`
	Quantity  int       `json:"quantity" validate:"required"`
	Reference string    `json:"reference" validate:"omitempty,max=100"`
	Notes     string    `json:"notes" validate:"omitempty,max=1000"`
}

// ThresholdRequest updates the low/high stock thresholds of a product.
type ThresholdRequest struct {
	MinStockLevel int  `json:"minStockLevel" validate:"min=0"`
	MaxStockLevel *int `json:"maxStockLevel" validate:"omitempty,min=0"`
}

// LevelResponse is the stock view of one product.
type LevelResponse struct {
	ProductID     uuid.UUID `json:"productId"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"minStockLevel"`
	MaxStockLevel *int      `json:"maxStockLevel,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductStockResponse pairs a product with its level for admin listings.
type ProductStockResponse struct {
	ProductID uuid.UUID      `json:"productId"`
	Slug      string         `json:"slug"`
	NameEn    string         `json:"nameEn"`
	NameAr    string         `json:"nameAr"`
	Quantity  int            `json:"quantity"`
	InStock   bool           `json:"inStock"`
	Level     *LevelResponse `json:"level,omitempty"`
}

// ProductStockListResponse is a cursor page of product stock rows.
type ProductStockListResponse struct {
	Products   []ProductStockResponse `json:"products"`
	NextCursor string                 `json:"nextCursor,omitempty"`
}

// TransactionResponse is one ledger entry.
type TransactionResponse struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"productId"`
	Type      string     `json:"type"`
	Quantity  int        `json:"quantity"`
	Reference *string    `json:"reference,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TransactionListResponse is a cursor page of ledger entries.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextCursor   string                `json:"nextCursor,omitempty"`
}

func (r TransactionRequest) ToModel(txType enums.InventoryTransactionType, createdBy *uuid.UUID) *models.InventoryTransaction {
	txn := &models.InventoryTransaction{
		ProductID: r.ProductID,
		Type:      txType,
		Quantity:  r.Quantity,
		CreatedBy: createdBy,
	}
	if ref := strings.TrimSpace(r.Reference); ref != "" {
		txn.Reference = &ref
	}
	if notes := strings.TrimSpace(r.Notes); notes != "" {
		txn.Notes = &notes
	}
	return txn
}

func NewLevelResponse(l *models.InventoryLevel) LevelResponse {
	return LevelResponse{
		ProductID:     l.ProductID,
		Quantity:      l.Quantity,
		MinStockLevel: l.MinStockLevel,
		MaxStockLevel: l.MaxStockLevel,
		UpdatedAt:     l.UpdatedAt,
	}
}

func NewProductStockResponse(p *models.Product) ProductStockResponse {
	resp := ProductStockResponse{
		ProductID: p.ID,
		Slug:      p.Slug,
		NameEn:    p.NameEn,
		NameAr:    p.NameAr,
		Quantity:  p.Quantity,
		InStock:   p.InStock,
	}
	if p.Inventory != nil {
		level := NewLevelResponse(p.Inventory)
		resp.Level = &level
	}
	return resp
}

func NewTransactionResponse(t *models.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		ProductID: t.ProductID,
		Type:      t.Type.String(),
		Quantity:  t.Quantity,
		Reference: t.Reference,
		Notes:     t.Notes,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	}
}
