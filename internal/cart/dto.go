package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// AddItemRequest puts a product into the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1,max=999"`
}

// UpdateItemRequest overwrites a line's quantity; zero removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=999"`
}

// ItemProduct is the slice of product data a cart line needs to render.
type ItemProduct struct {
	ID       uuid.UUID       `json:"id"`
	Slug     string          `json:"slug"`
	NameEn   string          `json:"nameEn"`
	NameAr   string          `json:"nameAr"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	InStock  bool            `json:"inStock"`
	ImageURL *string         `json:"imageUrl,omitempty"`
}

// ItemResponse is one cart line with its subtotal.
type ItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	Product   ItemProduct     `json:"product"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CartResponse is the whole cart with its running total.
type CartResponse struct {
	Items     []ItemResponse  `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

// NewItemResponse projects a cart line; the product must be preloaded.
func NewItemResponse(item *models.CartItem) ItemResponse {
	resp := ItemResponse{
		ID:        item.ID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
	}
	if item.Product != nil {
		resp.Product = ItemProduct{
			ID:       item.Product.ID,
			Slug:     item.Product.Slug,
			NameEn:   item.Product.NameEn,
			NameAr:   item.Product.NameAr,
			Price:    item.Product.Price,
			Currency: item.Product.Currency,
			InStock:  item.Product.InStock,
		}
		if len(item.Product.Images) > 0 {
			resp.Product.ImageURL = &item.Product.Images[0].URL
		}
		resp.Subtotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return resp
}

// NewCartResponse sums the lines into the cart view.
func NewCartResponse(items []models.CartItem, defaultCurrency string) CartResponse {
	resp := CartResponse{
		Items:    make([]ItemResponse, 0, len(items)),
		Total:    decimal.Zero,
		Currency: defaultCurrency,
	}
	for i := range items {
		line := NewItemResponse(&items[i])
		resp.Items = append(resp.Items, line)
		resp.ItemCount += line.Quantity
		resp.Total = resp.Total.Add(line.Subtotal)
		if items[i].Product != nil {
			resp.Currency = items[i].Product.Currency
		}
	}
	return resp
}
