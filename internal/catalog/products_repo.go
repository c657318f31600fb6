package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ProductFilter narrows catalog listings. IncludeUnpublished is threaded
// through every accessor; public controllers always pass false.
type ProductFilter struct {
	CategoryID         *uuid.UUID
	Search             string
	FeaturedOnly       bool
	IncludeUnpublished bool
	Pagination         pagination.Params
}

// ProductRepository persists products and their images.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(gdb *gorm.DB) *ProductRepository {
	return &ProductRepository{db: gdb}
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, string, error) {
	pageSize := pagination.NormalizeLimit(filter.Pagination.Limit)
	cursor, err := pagination.ParseCursor(filter.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.applyFilter(r.db.WithContext(ctx), filter)
	if cursor != nil {
		qb = qb.Where("(products.created_at < ?) OR (products.created_at = ? AND products.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err = qb.Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("is_primary DESC").Order("position ASC")
	}).
		Preload("Inventory").
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

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string, includeUnpublished bool) (*models.Product, error) {
	return r.findOne(ctx, "slug = ?", slug, includeUnpublished)
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID, includeUnpublished bool) (*models.Product, error) {
	return r.findOne(ctx, "products.id = ?", id, includeUnpublished)
}

func (r *ProductRepository) findOne(ctx context.Context, query string, arg any, includeUnpublished bool) (*models.Product, error) {
	qb := r.db.WithContext(ctx).Where(query, arg)
	if !includeUnpublished {
		qb = qb.Where("published = TRUE")
	}

	var row models.Product
	err := qb.Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("is_primary DESC").Order("position ASC")
	}).
		Preload("Inventory").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("category_id", "slug", "sku", "name_en", "name_ar", "description_en", "description_ar",
			"price", "compare_at_price", "currency", "published", "featured").
		Updates(product).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, product.ID, true)
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ReplaceImages swaps the product's image set in one transaction. Callers
// are expected to have normalized the is_primary flags already.
func (r *ProductRepository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) ([]models.ProductImage, error) {
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductImage{}, "product_id = ?", productID).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		for i := range images {
			images[i].ProductID = productID
			images[i].Position = i
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// SetPrimaryImage flips is_primary onto one image, clearing siblings in the
// same transaction.
func (r *ProductRepository) SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProductImage{}).
			Where("product_id = ? AND id <> ?", productID, imageID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.ProductImage{}).
			Where("id = ? AND product_id = ?", imageID, productID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ProductRepository) applyFilter(qb *gorm.DB, filter ProductFilter) *gorm.DB {
	qb = qb.Model(&models.Product{})
	if !filter.IncludeUnpublished {
		qb = qb.Where("published = TRUE")
	}
	if filter.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.FeaturedOnly {
		qb = qb.Where("featured = TRUE")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		qb = qb.Where(
			"name_en ILIKE ? OR name_ar ILIKE ? OR description_en ILIKE ? OR description_ar ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	return qb
}
