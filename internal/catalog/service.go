package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
)

// ListQuery carries the public/admin listing inputs. IncludeUnpublished is
// set only by admin controllers.
type ListQuery struct {
	CategorySlug       string
	Search             string
	FeaturedOnly       bool
	IncludeUnpublished bool
	Pagination         pagination.Params
}

// Service exposes the catalog: categories, products, and product media.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*CategoryResponse, error)
	CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, query ListQuery) (*ProductListResponse, error)
	GetProductBySlug(ctx context.Context, slug string, includeUnpublished bool) (*ProductResponse, error)
	GetProductByID(ctx context.Context, id uuid.UUID, includeUnpublished bool) (*ProductResponse, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ReplaceProductMedia(ctx context.Context, slug string, req MediaRequest) (*ProductResponse, error)
	SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error
}

type categoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ProductCount(ctx context.Context, id uuid.UUID) (int64, error)
}

type productRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, string, error)
	FindBySlug(ctx context.Context, slug string, includeUnpublished bool) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID, includeUnpublished bool) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) ([]models.ProductImage, error)
	SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error
}

type service struct {
	categories      categoryRepository
	products        productRepository
	defaultCurrency string
	logg            *logger.Logger
}

// ServiceParams bundles the catalog service dependencies.
type ServiceParams struct {
	Categories      categoryRepository
	Products        productRepository
	DefaultCurrency string
	Logger          *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.DefaultCurrency == "" {
		params.DefaultCurrency = "USD"
	}
	return &service{
		categories:      params.Categories,
		products:        params.Products,
		defaultCurrency: params.DefaultCurrency,
		logg:            params.Logger,
	}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing categories")
	}
	out := make([]CategoryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewCategoryResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	row, err := s.categories.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
	}
	resp := NewCategoryResponse(row)
	return &resp, nil
}

func (s *service) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	model := req.ToModel()
	created, err := s.categories.Create(ctx, model)
	if err != nil && db.IsUniqueViolation(err, "") {
		model.Slug = WithSuffix(model.Slug)
		created, err = s.categories.Create(ctx, model)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating category")
	}
	resp := NewCategoryResponse(created)
	return &resp, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
	}

	model := req.ToModel()
	model.ID = id
	updated, err := s.categories.Update(ctx, model)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "category slug already in use")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating category")
	}
	resp := NewCategoryResponse(updated)
	return &resp, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.categories.ProductCount(ctx, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "counting category products")
	}
	if count > 0 {
		return apperrors.New(apperrors.CodeValidation, "category still has products").
			WithDetails(map[string]any{"productCount": count})
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting category")
	}
	return nil
}

func (s *service) ListProducts(ctx context.Context, query ListQuery) (*ProductListResponse, error) {
	filter := ProductFilter{
		Search:             query.Search,
		FeaturedOnly:       query.FeaturedOnly,
		IncludeUnpublished: query.IncludeUnpublished,
		Pagination:         query.Pagination,
	}

	if slug := strings.TrimSpace(query.CategorySlug); slug != "" {
		category, err := s.categories.FindBySlug(ctx, slug)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
		}
		filter.CategoryID = &category.ID
	}

	rows, nextCursor, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing products")
	}

	out := make([]ProductResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductResponse(&rows[i]))
	}
	return &ProductListResponse{Products: out, NextCursor: nextCursor}, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string, includeUnpublished bool) (*ProductResponse, error) {
	row, err := s.products.FindBySlug(ctx, strings.TrimSpace(slug), includeUnpublished)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	resp := NewProductResponse(row)
	return &resp, nil
}

func (s *service) GetProductByID(ctx context.Context, id uuid.UUID, includeUnpublished bool) (*ProductResponse, error) {
	row, err := s.products.FindByID(ctx, id, includeUnpublished)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	resp := NewProductResponse(row)
	return &resp, nil
}

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeValidation, "category does not exist")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
	}
	if req.Price.IsNegative() {
		return nil, apperrors.New(apperrors.CodeValidation, "price cannot be negative")
	}

	model := req.ToModel(s.defaultCurrency)
	created, err := s.products.Create(ctx, model)
	if err != nil && db.IsUniqueViolation(err, "") {
		model.Slug = WithSuffix(model.Slug)
		created, err = s.products.Create(ctx, model)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating product")
	}

	s.logg.Info(s.logg.WithField(ctx, "product_slug", created.Slug), "product created")
	resp := NewProductResponse(created)
	return &resp, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	if _, err := s.products.FindByID(ctx, id, true); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if req.Price.IsNegative() {
		return nil, apperrors.New(apperrors.CodeValidation, "price cannot be negative")
	}

	model := req.ToModel(s.defaultCurrency)
	model.ID = id
	updated, err := s.products.Update(ctx, model)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "product slug already in use")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating product")
	}
	resp := NewProductResponse(updated)
	return &resp, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, id, true); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) ReplaceProductMedia(ctx context.Context, slug string, req MediaRequest) (*ProductResponse, error) {
	product, err := s.products.FindBySlug(ctx, strings.TrimSpace(slug), true)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}

	images := normalizePrimary(req.Images)
	if _, err := s.products.ReplaceImages(ctx, product.ID, images); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "replacing product media")
	}

	return s.GetProductByID(ctx, product.ID, true)
}

// normalizePrimary keeps at most one flagged image; the first image is
// promoted when none is flagged so a non-empty set always has a primary.
func normalizePrimary(items []MediaItem) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(items))
	primarySeen := false
	for _, item := range items {
		image := item.ToModel()
		if image.IsPrimary {
			if primarySeen {
				image.IsPrimary = false
			}
			primarySeen = true
		}
		images = append(images, image)
	}
	if !primarySeen && len(images) > 0 {
		images[0].IsPrimary = true
	}
	return images
}

func (s *service) SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error {
	if err := s.products.SetPrimaryImage(ctx, productID, imageID); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "product image not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "setting primary image")
	}
	return nil
}
