package contact

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
)

// ListFilter narrows admin contact message listings.
type ListFilter struct {
	Status     *enums.ContactMessageStatus
	Pagination pagination.Params
}

// Repository persists contact form submissions.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

func (r *Repository) Create(ctx context.Context, message *models.ContactMessage) (*models.ContactMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// List pages through messages newest first, optionally by triage status.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.ContactMessage, string, error) {
	pageSize := pagination.NormalizeLimit(filter.Pagination.Limit)
	cursor, err := pagination.ParseCursor(filter.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ContactMessage
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

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var row models.ContactMessage
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ContactMessageStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactMessage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountNew feeds the dashboard's untriaged message counter.
func (r *Repository) CountNew(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("status = ?", enums.ContactMessageStatusNew).
		Count(&count).Error
	return count, err
}
