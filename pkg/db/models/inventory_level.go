package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryLevel is the authoritative stock record, one-to-one with Product.
// It is mutated only through InventoryTransaction application.
type InventoryLevel struct {
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	Quantity      int       `gorm:"column:quantity;not null;default:0"`
	MinStockLevel int       `gorm:"column:min_stock_level;not null;default:5"`
	MaxStockLevel *int      `gorm:"column:max_stock_level"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
