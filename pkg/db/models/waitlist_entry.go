package models

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry captures a pre-launch signup.
type WaitlistEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Name      *string   `gorm:"column:name"`
	Locale    string    `gorm:"column:locale;type:varchar(5);not null;default:'en'"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
