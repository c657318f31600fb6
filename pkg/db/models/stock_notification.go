package models

import (
	"time"

	"github.com/google/uuid"
)

// StockNotification is a back-in-stock subscription. A partial unique index
// on (email, product_id) WHERE notified = false makes re-subscribing
// idempotent even under concurrent requests.
type StockNotification struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email      string     `gorm:"column:email;not null"`
	ProductID  uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	Notified   bool       `gorm:"column:notified;not null;default:false"`
	NotifiedAt *time.Time `gorm:"column:notified_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
