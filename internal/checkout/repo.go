package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository owns the checkout write path. Order, items, and cart drain
// commit or roll back together.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// CreateOrder inserts the order with its items and, when drainCartFor is
// set, empties that user's cart in the same transaction. A unique violation
// on the order number surfaces unwrapped so callers can retry with a fresh
// number.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order, drainCartFor *uuid.UUID) (*models.Order, error) {
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if drainCartFor != nil {
			if err := tx.Where("user_id = ?", *drainCartFor).
				Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
