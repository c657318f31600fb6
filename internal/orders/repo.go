package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListFilter narrows admin order listings.
type ListFilter struct {
	UserID        *uuid.UUID
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	Pagination    pagination.Params
}

// Stats is the order slice of the admin dashboard.
type Stats struct {
	TotalOrders   int64
	PendingOrders int64
	PaidRevenue   decimal.Decimal
}

// Repository persists orders. Order rows never cascade-delete with users.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// List pages through orders newest first, optionally filtered.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Order, string, error) {
	pageSize := pagination.NormalizeLimit(filter.Pagination.Limit)
	cursor, err := pagination.ParseCursor(filter.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != nil {
		qb = qb.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		qb = qb.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err = qb.Preload("Items").
		Order("created_at DESC").
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

// FindByID loads one order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateStatus writes the fulfillment status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdatePaymentStatus writes the payment status.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

// UpdateNotes overwrites the free-text notes.
func (r *Repository) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("notes", notes).Error
}

// GetStats aggregates the dashboard counters.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{PaidRevenue: decimal.Zero}

	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", enums.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}

	var revenue decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_status = ?", enums.PaymentStatusPaid).
		Select("SUM(total_amount)").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue.Valid {
		stats.PaidRevenue = revenue.Decimal
	}
	return stats, nil
}
