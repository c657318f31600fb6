package waitlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
)

// Repository persists pre-launch waitlist signups.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// Create inserts a signup. Re-joining with an email that is already on the
// list returns the existing row instead of an error.
func (r *Repository) Create(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, bool, error) {
	err := r.db.WithContext(ctx).Create(entry).Error
	if err == nil {
		return entry, true, nil
	}
	if !db.IsUniqueViolation(err, "waitlist_entries_email_key") {
		return nil, false, err
	}

	var existing models.WaitlistEntry
	if err := r.db.WithContext(ctx).First(&existing, "email = ?", entry.Email).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// List pages through signups newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.WaitlistEntry, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.WaitlistEntry{})
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.WaitlistEntry
	err = qb.Order("created_at DESC").
		Order("id DESC").
		Limit(pageSize + 1).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.WaitlistEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&count).Error
	return count, err
}
