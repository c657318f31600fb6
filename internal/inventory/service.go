package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
)

// Service exposes the admin inventory surface.
type Service interface {
	ApplyTransaction(ctx context.Context, actorID *uuid.UUID, req TransactionRequest) (*LevelResponse, error)
	GetLevel(ctx context.Context, productID uuid.UUID) (*LevelResponse, error)
	UpdateThresholds(ctx context.Context, productID uuid.UUID, req ThresholdRequest) (*LevelResponse, error)
	ListProductStock(ctx context.Context, params pagination.Params) (*ProductStockListResponse, error)
	ListLowStock(ctx context.Context) ([]ProductStockResponse, error)
	ListTransactions(ctx context.Context, productID *uuid.UUID, params pagination.Params) (*TransactionListResponse, error)
}

type inventoryRepository interface {
	Apply(ctx context.Context, txn *models.InventoryTransaction) (*models.InventoryLevel, error)
	FindLevel(ctx context.Context, productID uuid.UUID) (*models.InventoryLevel, error)
	UpdateThresholds(ctx context.Context, productID uuid.UUID, minLevel int, maxLevel *int) error
	ListLevels(ctx context.Context, params pagination.Params) ([]models.Product, string, error)
	ListLowStock(ctx context.Context) ([]models.Product, error)
	ListTransactions(ctx context.Context, productID *uuid.UUID, params pagination.Params) ([]models.InventoryTransaction, string, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID, includeUnpublished bool) (*models.Product, error)
}

type service struct {
	repo     inventoryRepository
	products productFinder
	logg     *logger.Logger
}

// ServiceParams bundles the inventory service dependencies.
type ServiceParams struct {
	Repo     inventoryRepository
	Products productFinder
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: params.Repo, products: params.Products, logg: params.Logger}, nil
}

func (s *service) ApplyTransaction(ctx context.Context, actorID *uuid.UUID, req TransactionRequest) (*LevelResponse, error) {
	txType, err := enums.ParseInventoryTransactionType(req.Type)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid transaction type")
	}
	if req.Quantity == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity cannot be zero")
	}

	// Drafts are stockable too; inventory is an admin surface.
	if _, err := s.products.FindByID(ctx, req.ProductID, true); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}

	level, err := s.repo.Apply(ctx, req.ToModel(txType, actorID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "applying inventory transaction")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"product_id": req.ProductID.String(),
		"tx_type":    txType.String(),
		"quantity":   req.Quantity,
	})
	s.logg.Info(ctx, "inventory transaction applied")
	if level.Quantity < 0 {
		s.logg.Warn(ctx, "stock level is negative")
	}

	resp := NewLevelResponse(level)
	return &resp, nil
}

func (s *service) GetLevel(ctx context.Context, productID uuid.UUID) (*LevelResponse, error) {
	level, err := s.repo.FindLevel(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "inventory level not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading inventory level")
	}
	resp := NewLevelResponse(level)
	return &resp, nil
}

func (s *service) UpdateThresholds(ctx context.Context, productID uuid.UUID, req ThresholdRequest) (*LevelResponse, error) {
	if req.MaxStockLevel != nil && *req.MaxStockLevel < req.MinStockLevel {
		return nil, apperrors.New(apperrors.CodeValidation, "maxStockLevel cannot be below minStockLevel")
	}
	if err := s.repo.UpdateThresholds(ctx, productID, req.MinStockLevel, req.MaxStockLevel); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "inventory level not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating thresholds")
	}
	return s.GetLevel(ctx, productID)
}

func (s *service) ListProductStock(ctx context.Context, params pagination.Params) (*ProductStockListResponse, error) {
	rows, nextCursor, err := s.repo.ListLevels(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing product stock")
	}
	out := make([]ProductStockResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductStockResponse(&rows[i]))
	}
	return &ProductStockListResponse{Products: out, NextCursor: nextCursor}, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]ProductStockResponse, error) {
	rows, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing low stock products")
	}
	out := make([]ProductStockResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductStockResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) ListTransactions(ctx context.Context, productID *uuid.UUID, params pagination.Params) (*TransactionListResponse, error) {
	rows, nextCursor, err := s.repo.ListTransactions(ctx, productID, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing inventory transactions")
	}
	out := make([]TransactionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewTransactionResponse(&rows[i]))
	}
	return &TransactionListResponse{Transactions: out, NextCursor: nextCursor}, nil
}
