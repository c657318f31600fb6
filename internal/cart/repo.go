package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists cart items. The (user_id, product_id) unique index
// makes adds collapse into the existing row atomically.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// ListByUser returns the cart with product data preloaded, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Product").
		Preload("Product.Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("is_primary DESC").Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// Add inserts the item or increments the existing row's quantity in a
// single upsert statement.
func (r *Repository) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(&item).Error
}

// SetQuantity overwrites the quantity of an existing line.
func (r *Repository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Remove drops one line from the cart.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear empties the user's cart.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
