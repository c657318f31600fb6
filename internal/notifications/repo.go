package notifications

import (
	"context"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists back-in-stock subscriptions. Idempotency is enforced
// by the partial unique index on (email, product_id) WHERE notified = false:
// the select-or-insert runs in a transaction and a concurrent duplicate
// insert resolves to the existing row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// Subscribe returns the pending subscription for (email, product), creating
// it only when none exists.
func (r *Repository) Subscribe(ctx context.Context, email string, productID uuid.UUID) (*models.StockNotification, bool, error) {
	var row models.StockNotification
	created := false

	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		err := tx.Where("email = ? AND product_id = ? AND notified = FALSE", email, productID).
			First(&row).Error
		if err == nil {
			return nil
		}
		if !db.IsNotFound(err) {
			return err
		}

		row = models.StockNotification{Email: email, ProductID: productID}
		if err := tx.Create(&row).Error; err != nil {
			if db.IsUniqueViolation(err, "idx_stock_notifications_pending") {
				// Lost the race; the winner's row is the subscription.
				return tx.Where("email = ? AND product_id = ? AND notified = FALSE", email, productID).
					First(&row).Error
			}
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &row, created, nil
}

// ListPending pages through un-notified subscriptions for the admin view.
func (r *Repository) ListPending(ctx context.Context, productID *uuid.UUID, params pagination.Params) ([]models.StockNotification, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.StockNotification{}).
		Where("notified = FALSE")
	if productID != nil {
		qb = qb.Where("product_id = ?", *productID)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.StockNotification
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(pageSize + 1).Find(&rows).Error; err != nil {
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

// MarkNotified closes out all pending subscriptions for a product, stamping
// the time so a shopper may subscribe again afterwards.
func (r *Repository) MarkNotified(ctx context.Context, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StockNotification{}).
		Where("product_id = ? AND notified = FALSE", productID).
		Updates(map[string]any{
			"notified":    true,
			"notified_at": gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}
