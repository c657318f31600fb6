package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// CategoryRequest creates or replaces a category. Slug is derived from the
// English name when omitted.
type CategoryRequest struct {
	Slug          string `json:"slug" validate:"omitempty,max=120"`
	NameEn        string `json:"nameEn" validate:"required,max=200"`
	NameAr        string `json:"nameAr" validate:"required,max=200"`
	DescriptionEn string `json:"descriptionEn" validate:"omitempty,max=2000"`
	DescriptionAr string `json:"descriptionAr" validate:"omitempty,max=2000"`
	ImageURL      string `json:"imageUrl" validate:"omitempty,url,max=500"`
	Position      int    `json:"position" validate:"omitempty,min=0"`
}

// CategoryResponse is the API projection of a category.
type CategoryResponse struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	NameEn        string    `json:"nameEn"`
	NameAr        string    `json:"nameAr"`
	DescriptionEn *string   `json:"descriptionEn,omitempty"`
	DescriptionAr *string   `json:"descriptionAr,omitempty"`
	ImageURL      *string   `json:"imageUrl,omitempty"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ProductRequest creates or replaces a product.
type ProductRequest struct {
	CategoryID     uuid.UUID       `json:"categoryId" validate:"required"`
	Slug           string          `json:"slug" validate:"omitempty,max=160"`
	SKU            string          `json:"sku" validate:"omitempty,max=64"`
	NameEn         string          `json:"nameEn" validate:"required,max=300"`
	NameAr         string          `json:"nameAr" validate:"required,max=300"`
	DescriptionEn  string          `json:"descriptionEn" validate:"omitempty,max=10000"`
	DescriptionAr  string          `json:"descriptionAr" validate:"omitempty,max=10000"`
	Price          decimal.Decimal `json:"price" validate:"required"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice"`
	Currency       string          `json:"currency" validate:"omitempty,len=3,alpha"`
	Published      bool            `json:"published"`
	Featured       bool            `json:"featured"`
}

// MediaItem is one entry of a product's image set.
type MediaItem struct {
	URL       string `json:"url" validate:"required,max=500"`
	AltEn     string `json:"altEn" validate:"omitempty,max=300"`
	AltAr     string `json:"altAr" validate:"omitempty,max=300"`
	IsPrimary bool   `json:"isPrimary"`
}

// MediaRequest replaces a product's image set wholesale.
type MediaRequest struct {
	Images []MediaItem `json:"images" validate:"dive"`
}

// ImageResponse is the API projection of a product image.
type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	AltEn     *string   `json:"altEn,omitempty"`
	AltAr     *string   `json:"altAr,omitempty"`
	IsPrimary bool      `json:"isPrimary"`
	Position  int       `json:"position"`
}

// ProductResponse is the API projection of a product, images included.
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	CategoryID     uuid.UUID        `json:"categoryId"`
	Slug           string           `json:"slug"`
	SKU            *string          `json:"sku,omitempty"`
	NameEn         string           `json:"nameEn"`
	NameAr         string           `json:"nameAr"`
	DescriptionEn  *string          `json:"descriptionEn,omitempty"`
	DescriptionAr  *string          `json:"descriptionAr,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice,omitempty"`
	Currency       string           `json:"currency"`
	Published      bool             `json:"published"`
	Featured       bool             `json:"featured"`
	Quantity       int              `json:"quantity"`
	InStock        bool             `json:"inStock"`
	Images         []ImageResponse  `json:"images"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ProductListResponse is a cursor page of products.
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

func (r CategoryRequest) ToModel() *models.Category {
	category := &models.Category{
		Slug:     strings.TrimSpace(r.Slug),
		NameEn:   strings.TrimSpace(r.NameEn),
		NameAr:   strings.TrimSpace(r.NameAr),
		Position: r.Position,
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.NameEn)
	}
	category.DescriptionEn = optional(r.DescriptionEn)
	category.DescriptionAr = optional(r.DescriptionAr)
	category.ImageURL = optional(r.ImageURL)
	return category
}

func (r ProductRequest) ToModel(defaultCurrency string) *models.Product {
	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	product := &models.Product{
		CategoryID:     r.CategoryID,
		Slug:           strings.TrimSpace(r.Slug),
		NameEn:         strings.TrimSpace(r.NameEn),
		NameAr:         strings.TrimSpace(r.NameAr),
		Price:          r.Price,
		CompareAtPrice: r.CompareAtPrice,
		Currency:       currency,
		Published:      r.Published,
		Featured:       r.Featured,
	}
	if product.Slug == "" {
		product.Slug = Slugify(product.NameEn)
	}
	product.SKU = optional(r.SKU)
	product.DescriptionEn = optional(r.DescriptionEn)
	product.DescriptionAr = optional(r.DescriptionAr)
	return product
}

func (m MediaItem) ToModel() models.ProductImage {
	image := models.ProductImage{
		URL:       strings.TrimSpace(m.URL),
		IsPrimary: m.IsPrimary,
	}
	image.AltEn = optional(m.AltEn)
	image.AltAr = optional(m.AltAr)
	return image
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:            c.ID,
		Slug:          c.Slug,
		NameEn:        c.NameEn,
		NameAr:        c.NameAr,
		DescriptionEn: c.DescriptionEn,
		DescriptionAr: c.DescriptionAr,
		ImageURL:      c.ImageURL,
		Position:      c.Position,
		CreatedAt:     c.CreatedAt,
	}
}

func NewImageResponse(i *models.ProductImage) ImageResponse {
	return ImageResponse{
		ID:        i.ID,
		URL:       i.URL,
		AltEn:     i.AltEn,
		AltAr:     i.AltAr,
		IsPrimary: i.IsPrimary,
		Position:  i.Position,
	}
}

func NewProductResponse(p *models.Product) ProductResponse {
	images := make([]ImageResponse, 0, len(p.Images))
	for i := range p.Images {
		images = append(images, NewImageResponse(&p.Images[i]))
	}
	return ProductResponse{
		ID:             p.ID,
		CategoryID:     p.CategoryID,
		Slug:           p.Slug,
		SKU:            p.SKU,
		NameEn:         p.NameEn,
		NameAr:         p.NameAr,
		DescriptionEn:  p.DescriptionEn,
		DescriptionAr:  p.DescriptionAr,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		Currency:       p.Currency,
		Published:      p.Published,
		Featured:       p.Featured,
		Quantity:       p.Quantity,
		InStock:        p.InStock,
		Images:         images,
		CreatedAt:      p.CreatedAt,
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
