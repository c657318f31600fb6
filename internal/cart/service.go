package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
)

// Service manages per-user carts.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID, includeUnpublished bool) (*models.Product, error)
}

type service struct {
	repo            cartRepository
	products        productFinder
	defaultCurrency string
	logg            *logger.Logger
}

// ServiceParams bundles the cart service dependencies.
type ServiceParams struct {
	Repo            cartRepository
	Products        productFinder
	DefaultCurrency string
	Logger          *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.DefaultCurrency == "" {
		params.DefaultCurrency = "USD"
	}
	return &service{
		repo:            params.Repo,
		products:        params.Products,
		defaultCurrency: params.DefaultCurrency,
		logg:            params.Logger,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart")
	}
	resp := NewCartResponse(items, s.defaultCurrency)
	return &resp, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	// Shoppers can only add published products; drafts stay invisible.
	if _, err := s.products.FindByID(ctx, req.ProductID, false); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}

	if err := s.repo.Add(ctx, userID, req.ProductID, req.Quantity); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "adding cart item")
	}
	return s.Get(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	var err error
	if req.Quantity == 0 {
		err = s.repo.Remove(ctx, userID, productID)
	} else {
		err = s.repo.SetQuantity(ctx, userID, productID, req.Quantity)
	}
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "cart item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating cart item")
	}
	return s.Get(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "cart item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "removing cart item")
	}
	return s.Get(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "clearing cart")
	}
	return nil
}
