package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/poultrygear/poultrygear-backend/pkg/enums"
)

// InventoryTransaction is an immutable append-only ledger entry. Quantity is
// signed: positive for stock-in, negative for stock-out. Rows are never
// updated or deleted.
type InventoryTransaction struct {
	ID        uuid.UUID                      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID                      `gorm:"column:product_id;type:uuid;not null;index"`
	Type      enums.InventoryTransactionType `gorm:"column:type;type:varchar(20);not null"`
	Quantity  int                            `gorm:"column:quantity;not null"`
	Reference *string                        `gorm:"column:reference"`
	Notes     *string                        `gorm:"column:notes"`
	CreatedBy *uuid.UUID                     `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time                      `gorm:"column:created_at;autoCreateTime"`
}
