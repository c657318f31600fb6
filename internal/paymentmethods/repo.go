package paymentmethods

import (
	"context"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists saved payment methods. The single-default invariant
// is maintained the same way as addresses: every flag flip happens inside
// one transaction.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	var rows []models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	var row models.PaymentMethod
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts the method, auto-defaulting a user's first one.
func (r *Repository) Create(ctx context.Context, method *models.PaymentMethod) (*models.PaymentMethod, error) {
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PaymentMethod{}).
			Where("user_id = ?", method.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			method.IsDefault = true
		}
		if method.IsDefault {
			if err := clearDefaults(tx, method.UserID, uuid.Nil); err != nil {
				return err
			}
		}
		return tx.Create(method).Error
	})
	if err != nil {
		return nil, err
	}
	return method, nil
}

func (r *Repository) Update(ctx context.Context, method *models.PaymentMethod) (*models.PaymentMethod, error) {
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if method.IsDefault {
			if err := clearDefaults(tx, method.UserID, method.ID); err != nil {
				return err
			}
		}
		return tx.Model(&models.PaymentMethod{}).
			Where("id = ?", method.ID).
			Select("type", "holder_name", "card_brand", "card_last4", "card_exp_month", "card_exp_year", "is_default").
			Updates(method).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, method.ID)
}

// SetDefault flips the default flag onto the given method atomically.
func (r *Repository) SetDefault(ctx context.Context, userID, methodID uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := clearDefaults(tx, userID, methodID); err != nil {
			return err
		}
		res := tx.Model(&models.PaymentMethod{}).
			Where("id = ? AND user_id = ?", methodID, userID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Delete removes the method, promoting the most recent remaining one when
// the deleted row held the default flag.
func (r *Repository) Delete(ctx context.Context, userID, methodID uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var row models.PaymentMethod
		if err := tx.First(&row, "id = ? AND user_id = ?", methodID, userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.PaymentMethod{}, "id = ?", methodID).Error; err != nil {
			return err
		}
		if !row.IsDefault {
			return nil
		}

		var next models.PaymentMethod
		err := tx.Where("user_id = ?", userID).
			Order("created_at DESC").
			First(&next).Error
		if err != nil {
			if db.IsNotFound(err) {
				return nil
			}
			return err
		}
		return tx.Model(&models.PaymentMethod{}).
			Where("id = ?", next.ID).
			Update("is_default", true).Error
	})
}

func clearDefaults(tx *gorm.DB, userID, exceptID uuid.UUID) error {
	qb := tx.Model(&models.PaymentMethod{}).Where("user_id = ?", userID)
	if exceptID != uuid.Nil {
		qb = qb.Where("id <> ?", exceptID)
	}
	return qb.Update("is_default", false).Error
}
