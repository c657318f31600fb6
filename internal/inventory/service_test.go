package inventory

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
)

type stubInventoryRepo struct {
	applied []*models.InventoryTransaction
	level   models.InventoryLevel
}

func (s *stubInventoryRepo) Apply(_ context.Context, txn *models.InventoryTransaction) (*models.InventoryLevel, error) {
	s.applied = append(s.applied, txn)
	s.level.ProductID = txn.ProductID
	s.level.Quantity += txn.Quantity
	if s.level.MinStockLevel == 0 {
		s.level.MinStockLevel = lowStockFallback
	}
	level := s.level
	return &level, nil
}

func (s *stubInventoryRepo) FindLevel(_ context.Context, productID uuid.UUID) (*models.InventoryLevel, error) {
	if s.level.ProductID != productID {
		return nil, gorm.ErrRecordNotFound
	}
	level := s.level
	return &level, nil
}

func (s *stubInventoryRepo) UpdateThresholds(_ context.Context, productID uuid.UUID, minLevel int, maxLevel *int) error {
	if s.level.ProductID != productID {
		return gorm.ErrRecordNotFound
	}
	s.level.MinStockLevel = minLevel
	s.level.MaxStockLevel = maxLevel
	return nil
}

func (s *stubInventoryRepo) ListLevels(_ context.Context, _ pagination.Params) ([]models.Product, string, error) {
	return nil, "", nil
}

func (s *stubInventoryRepo) ListLowStock(_ context.Context) ([]models.Product, error) {
	return nil, nil
}

func (s *stubInventoryRepo) ListTransactions(_ context.Context, _ *uuid.UUID, _ pagination.Params) ([]models.InventoryTransaction, string, error) {
	return nil, "", nil
}

type stubProductFinder struct {
	known map[uuid.UUID]bool
}

func (s *stubProductFinder) FindByID(_ context.Context, id uuid.UUID, _ bool) (*models.Product, error) {
	if !s.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Product{ID: id}, nil
}

func newInventoryService(t *testing.T, repo *stubInventoryRepo, finder *stubProductFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Products: finder,
		Logger:   logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestApplyTransactionRejectsUnknownType(t *testing.T) {
	productID := uuid.New()
	svc := newInventoryService(t, &stubInventoryRepo{}, &stubProductFinder{known: map[uuid.UUID]bool{productID: true}})

	_, err := svc.ApplyTransaction(context.Background(), nil, TransactionRequest{
		ProductID: productID,
		Type:      "restock",
		Quantity:  5,
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestApplyTransactionRejectsZeroQuantity(t *testing.T) {
	productID := uuid.New()
	svc := newInventoryService(t, &stubInventoryRepo{}, &stubProductFinder{known: map[uuid.UUID]bool{productID: true}})

	_, err := svc.ApplyTransaction(context.Background(), nil, TransactionRequest{
		ProductID: productID,
		Type:      "purchase",
		Quantity:  0,
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestApplyTransactionRejectsUnknownProduct(t *testing.T) {
	svc := newInventoryService(t, &stubInventoryRepo{}, &stubProductFinder{known: map[uuid.UUID]bool{}})

	_, err := svc.ApplyTransaction(context.Background(), nil, TransactionRequest{
		ProductID: uuid.New(),
		Type:      "purchase",
		Quantity:  5,
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
}

func TestApplyTransactionRecordsActorAndSignedQuantity(t *testing.T) {
	productID := uuid.New()
	actorID := uuid.New()
	repo := &stubInventoryRepo{}
	svc := newInventoryService(t, repo, &stubProductFinder{known: map[uuid.UUID]bool{productID: true}})

	level, err := svc.ApplyTransaction(context.Background(), &actorID, TransactionRequest{
		ProductID: productID,
		Type:      "sale",
		Quantity:  -3,
		Reference: "ORD-20260301-0042",
	})
	require.NoError(t, err)
	assert.Equal(t, -3, level.Quantity)

	require.Len(t, repo.applied, 1)
	applied := repo.applied[0]
	assert.Equal(t, -3, applied.Quantity)
	require.NotNil(t, applied.CreatedBy)
	assert.Equal(t, actorID, *applied.CreatedBy)
	require.NotNil(t, applied.Reference)
	assert.Equal(t, "ORD-20260301-0042", *applied.Reference)
}

func TestUpdateThresholdsValidatesRange(t *testing.T) {
	productID := uuid.New()
	repo := &stubInventoryRepo{level: models.InventoryLevel{ProductID: productID, MinStockLevel: 5}}
	svc := newInventoryService(t, repo, &stubProductFinder{known: map[uuid.UUID]bool{productID: true}})

	maxLevel := 2
	_, err := svc.UpdateThresholds(context.Background(), productID, ThresholdRequest{
		MinStockLevel: 10,
		MaxStockLevel: &maxLevel,
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}
