package models

import (
	"time"

	"github.com/google/uuid"
)

// Address belongs to exactly one user. At most one address per user carries
// is_default=true; the flip is enforced transactionally in internal/addresses.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Label      *string   `gorm:"column:label"`
	FullName   string    `gorm:"column:full_name;not null"`
	Phone      string    `gorm:"column:phone;not null"`
	Line1      string    `gorm:"column:line1;not null"`
	Line2      *string   `gorm:"column:line2"`
	City       string    `gorm:"column:city;not null"`
	Region     *string   `gorm:"column:region"`
	PostalCode *string   `gorm:"column:postal_code"`
	Country    string    `gorm:"column:country;type:varchar(2);not null;default:'SA'"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
