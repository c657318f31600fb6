package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/poultrygear/poultrygear-backend/pkg/enums"
)

// User represents the canonical identity entity. Deleting a user cascades to
// addresses, payment methods, and cart items; orders survive and keep their
// snapshot data.
type User struct {
	ID                       uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email                    string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash             string         `gorm:"column:password_hash;not null"`
	FirstName                string         `gorm:"column:first_name;not null"`
	LastName                 string         `gorm:"column:last_name;not null"`
	Phone                    *string        `gorm:"column:phone"`
	Role                     enums.UserRole `gorm:"column:role;type:text;not null;default:'user'"`
	PreferredLocale          string         `gorm:"column:preferred_locale;type:varchar(5);not null;default:'en'"`
	DefaultShippingAddressID *uuid.UUID     `gorm:"column:default_shipping_address_id;type:uuid"`
	IsActive                 bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt              *time.Time     `gorm:"column:last_login_at"`
	Addresses                []Address      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PaymentMethods           []PaymentMethod `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CartItems                []CartItem     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt                time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
