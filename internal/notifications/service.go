package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
)

// SubscribeRequest registers interest in a product coming back in stock.
type SubscribeRequest struct {
	Email     string    `json:"email" validate:"required,email,max=255"`
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

// SubscriptionResponse is the stored (or pre-existing) subscription.
type SubscriptionResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	ProductID uuid.UUID `json:"productId"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListResponse is a cursor page of pending subscriptions.
type ListResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	NextCursor    string                 `json:"nextCursor,omitempty"`
}

// Service manages back-in-stock subscriptions.
type Service interface {
	Subscribe(ctx context.Context, req SubscribeRequest) (*SubscriptionResponse, error)
	ListPending(ctx context.Context, productID *uuid.UUID, params pagination.Params) (*ListResponse, error)
	MarkNotified(ctx context.Context, productID uuid.UUID) (int64, error)
}

type subscriptionRepository interface {
	Subscribe(ctx context.Context, email string, productID uuid.UUID) (*models.StockNotification, bool, error)
	ListPending(ctx context.Context, productID *uuid.UUID, params pagination.Params) ([]models.StockNotification, string, error)
	MarkNotified(ctx context.Context, productID uuid.UUID) (int64, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID, includeUnpublished bool) (*models.Product, error)
}

type service struct {
	repo     subscriptionRepository
	products productFinder
	logg     *logger.Logger
}

// ServiceParams bundles the stock notification dependencies.
type ServiceParams struct {
	Repo     subscriptionRepository
	Products productFinder
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("subscription repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: params.Repo, products: params.Products, logg: params.Logger}, nil
}

func (s *service) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscriptionResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Only published products are subscribable; drafts stay invisible.
	if _, err := s.products.FindByID(ctx, req.ProductID, false); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}

	row, created, err := s.repo.Subscribe(ctx, email, req.ProductID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "subscribing to stock notification")
	}
	if created {
		s.logg.Info(s.logg.WithField(ctx, "product_id", req.ProductID.String()), "stock notification subscribed")
	}

	return &SubscriptionResponse{
		ID:        row.ID,
		Email:     row.Email,
		ProductID: row.ProductID,
		Notified:  row.Notified,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (s *service) ListPending(ctx context.Context, productID *uuid.UUID, params pagination.Params) (*ListResponse, error) {
	rows, nextCursor, err := s.repo.ListPending(ctx, productID, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing stock notifications")
	}
	out := make([]SubscriptionResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, SubscriptionResponse{
			ID:        row.ID,
			Email:     row.Email,
			ProductID: row.ProductID,
			Notified:  row.Notified,
			CreatedAt: row.CreatedAt,
		})
	}
	return &ListResponse{Subscriptions: out, NextCursor: nextCursor}, nil
}

func (s *service) MarkNotified(ctx context.Context, productID uuid.UUID) (int64, error) {
	count, err := s.repo.MarkNotified(ctx, productID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, err, "marking subscriptions notified")
	}
	return count, nil
}
