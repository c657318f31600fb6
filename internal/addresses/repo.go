package addresses

import (
	"context"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository owns address persistence, including the single-default
// invariant. Every write that can flip is_default runs inside one
// transaction so concurrent writers never observe zero or two defaults.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// ListByUser returns the user's addresses, default first, newest next.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindByID loads a single address row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var row models.Address
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts the address. A user's first address is always defaulted;
// when the new row is default, sibling defaults are cleared in the same
// transaction.
func (r *Repository) Create(ctx context.Context, address *models.Address) (*models.Address, error) {
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Address{}).
			Where("user_id = ?", address.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			address.IsDefault = true
		}

		if address.IsDefault {
			if err := clearDefaults(tx, address.UserID, uuid.Nil); err != nil {
				return err
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return err
		}
		if address.IsDefault {
			return syncUserDefault(tx, address.UserID, &address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update overwrites the address fields. Promoting to default clears sibling
// flags in the same transaction.
func (r *Repository) Update(ctx context.Context, address *models.Address) (*models.Address, error) {
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearDefaults(tx, address.UserID, address.ID); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Address{}).
			Where("id = ?", address.ID).
			Select("label", "full_name", "phone", "line1", "line2", "city", "region", "postal_code", "country", "is_default").
			Updates(address).Error; err != nil {
			return err
		}
		if address.IsDefault {
			return syncUserDefault(tx, address.UserID, &address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, address.ID)
}

// SetDefault flips the default flag onto the given address atomically.
func (r *Repository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := clearDefaults(tx, userID, addressID); err != nil {
			return err
		}
		res := tx.Model(&models.Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return syncUserDefault(tx, userID, &addressID)
	})
}

// Delete removes the address. When the default is deleted the most recent
// remaining address is promoted so the user keeps a usable default.
func (r *Repository) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var row models.Address
		if err := tx.First(&row, "id = ? AND user_id = ?", addressID, userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Address{}, "id = ?", addressID).Error; err != nil {
			return err
		}
		if !row.IsDefault {
			return nil
		}

		var next models.Address
		err := tx.Where("user_id = ?", userID).
			Order("created_at DESC").
			First(&next).Error
		if err != nil {
			if db.IsNotFound(err) {
				return syncUserDefault(tx, userID, nil)
			}
			return err
		}
		if err := tx.Model(&models.Address{}).
			Where("id = ?", next.ID).
			Update("is_default", true).Error; err != nil {
			return err
		}
		return syncUserDefault(tx, userID, &next.ID)
	})
}

func clearDefaults(tx *gorm.DB, userID, exceptID uuid.UUID) error {
	qb := tx.Model(&models.Address{}).Where("user_id = ?", userID)
	if exceptID != uuid.Nil {
		qb = qb.Where("id <> ?", exceptID)
	}
	return qb.Update("is_default", false).Error
}

// syncUserDefault keeps users.default_shipping_address_id in step with the
// flagged row. The column is a back-reference only.
func syncUserDefault(tx *gorm.DB, userID uuid.UUID, addressID *uuid.UUID) error {
	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("default_shipping_address_id", addressID).Error
}
