package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// lowStockFallback applies to products that never got an inventory level.
const lowStockFallback = 5

// Repository is the only sanctioned mutator of stock state. Applying a
// transaction writes the immutable log row, the inventory level, and the
// product mirror columns in one database transaction.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// Apply records the transaction and moves the stock level by its signed
// quantity. The level row is created with default thresholds when absent.
// Quantity may go negative; the log stays authoritative either way.
func (r *Repository) Apply(ctx context.Context, txn *models.InventoryTransaction) (*models.InventoryLevel, error) {
	var level models.InventoryLevel

	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		err := tx.Clauses(lockForUpdate()).
			First(&level, "product_id = ?", txn.ProductID).Error
		if err != nil {
			if !db.IsNotFound(err) {
				return err
			}
			level = models.InventoryLevel{
				ProductID:     txn.ProductID,
				Quantity:      0,
				MinStockLevel: lowStockFallback,
			}
			if err := tx.Create(&level).Error; err != nil {
				return err
			}
		}

		level.Quantity += txn.Quantity
		if err := tx.Model(&models.InventoryLevel{}).
			Where("product_id = ?", txn.ProductID).
			Update("quantity", level.Quantity).Error; err != nil {
			return err
		}

		return tx.Model(&models.Product{}).
			Where("id = ?", txn.ProductID).
			Updates(map[string]any{
				"quantity": level.Quantity,
				"in_stock": level.Quantity > 0,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// FindLevel loads the level row for one product.
func (r *Repository) FindLevel(ctx context.Context, productID uuid.UUID) (*models.InventoryLevel, error) {
	var level models.InventoryLevel
	if err := r.db.WithContext(ctx).First(&level, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

// UpdateThresholds sets min/max stock levels for a product.
func (r *Repository) UpdateThresholds(ctx context.Context, productID uuid.UUID, minLevel int, maxLevel *int) error {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryLevel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"min_stock_level": minLevel,
			"max_stock_level": maxLevel,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListLevels returns products joined with their levels for the admin view.
func (r *Repository) ListLevels(ctx context.Context, params pagination.Params) ([]models.Product, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if cursor != nil {
		qb = qb.Where("(products.created_at < ?) OR (products.created_at = ? AND products.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err = qb.Preload("Inventory").
		Order("products.created_at DESC").
		Order("products.id DESC").
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

// ListLowStock applies both low-stock policies: the level threshold for
// products with a level row, the fixed fallback for products without one.
func (r *Repository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Joins("LEFT JOIN inventory_levels ON inventory_levels.product_id = products.id").
		Where(
			"(inventory_levels.product_id IS NOT NULL AND products.quantity <= inventory_levels.min_stock_level) OR "+
				"(inventory_levels.product_id IS NULL AND products.quantity <= ?)",
			lowStockFallback,
		).
		Preload("Inventory").
		Order("products.quantity ASC").
		Find(&rows).Error
	return rows, err
}

// ListTransactions pages through the immutable log, optionally per product.
func (r *Repository) ListTransactions(ctx context.Context, productID *uuid.UUID, params pagination.Params) ([]models.InventoryTransaction, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.InventoryTransaction{})
	if productID != nil {
		qb = qb.Where("product_id = ?", *productID)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.InventoryTransaction
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
