package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"gorm.io/gorm"
)

// CategoryRepository persists catalog categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(gdb *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: gdb}
}

// List returns all categories ordered by merchandising position.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Order("name_en ASC").
		Find(&rows).Error
	return rows, err
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).First(&row, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", category.ID).
		Select("slug", "name_en", "name_ar", "description_en", "description_ar", "image_url", "position").
		Updates(category).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, category.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// ProductCount reports how many products still reference the category,
// used to surface the delete restriction before hitting the FK.
func (r *CategoryRepository) ProductCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}
