package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog listing. Quantity and InStock mirror the
// InventoryLevel whenever one exists; every inventory transaction keeps them
// in sync (internal/inventory is the only sanctioned mutator).
type Product struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID     uuid.UUID        `gorm:"column:category_id;type:uuid;not null;index"`
	Slug           string           `gorm:"column:slug;type:varchar(160);not null;uniqueIndex"`
	SKU            *string          `gorm:"column:sku;type:varchar(64)"`
	NameEn         string           `gorm:"column:name_en;not null"`
	NameAr         string           `gorm:"column:name_ar;not null"`
	DescriptionEn  *string          `gorm:"column:description_en"`
	DescriptionAr  *string          `gorm:"column:description_ar"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(10,2)"`
	Currency       string           `gorm:"column:currency;type:varchar(3);not null;default:'USD'"`
	Published      bool             `gorm:"column:published;not null;default:false"`
	Featured       bool             `gorm:"column:featured;not null;default:false"`
	Quantity       int              `gorm:"column:quantity;not null;default:0"`
	InStock        bool             `gorm:"column:in_stock;not null;default:false"`
	Images         []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Inventory      *InventoryLevel  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
