package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod stores a customer's saved payment instrument. The per-user
// single-default invariant mirrors Address and is maintained independently.
type PaymentMethod struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Type         string    `gorm:"column:type;type:varchar(20);not null;default:'card'"`
	HolderName   *string   `gorm:"column:holder_name"`
	CardBrand    *string   `gorm:"column:card_brand"`
	CardLast4    *string   `gorm:"column:card_last4;type:varchar(4)"`
	CardExpMonth *int      `gorm:"column:card_exp_month"`
	CardExpYear  *int      `gorm:"column:card_exp_year"`
	IsDefault    bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
