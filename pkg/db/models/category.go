package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a catalog node with bilingual naming. Deletion is restricted
// while any product still references it.
type Category struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug          string    `gorm:"column:slug;type:varchar(120);not null;uniqueIndex"`
	NameEn        string    `gorm:"column:name_en;not null"`
	NameAr        string    `gorm:"column:name_ar;not null"`
	DescriptionEn *string   `gorm:"column:description_en"`
	DescriptionAr *string   `gorm:"column:description_ar"`
	ImageURL      *string   `gorm:"column:image_url"`
	Position      int       `gorm:"column:position;not null;default:0"`
	Products      []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
