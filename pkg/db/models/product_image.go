package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage belongs to one product. At most one image per product carries
// is_primary=true, the same single-default invariant as Address scoped to the
// product.
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	URL       string    `gorm:"column:url;not null"`
	AltEn     *string   `gorm:"column:alt_en"`
	AltAr     *string   `gorm:"column:alt_ar"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
