package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/poultrygear/poultrygear-backend/pkg/enums"
)

// ContactMessage is a contact form submission triaged by admins.
type ContactMessage struct {
	ID        uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string                     `gorm:"column:name;not null"`
	Email     string                     `gorm:"column:email;not null"`
	Phone     *string                    `gorm:"column:phone"`
	Subject   *string                    `gorm:"column:subject"`
	Message   string                     `gorm:"column:message;not null"`
	Status    enums.ContactMessageStatus `gorm:"column:status;type:varchar(20);not null;default:'new'"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
