package notifications

import (
	"context"
	"io"
	"testing"
	"time"

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

type stubSubscriptionRepo struct {
	existing  *models.StockNotification
	lastEmail string
	created   bool
}

func (s *stubSubscriptionRepo) Subscribe(_ context.Context, email string, productID uuid.UUID) (*models.StockNotification, bool, error) {
	s.lastEmail = email
	if s.existing != nil {
		return s.existing, false, nil
	}
	s.created = true
	return &models.StockNotification{
		ID:        uuid.New(),
		Email:     email,
		ProductID: productID,
		CreatedAt: time.Now(),
	}, true, nil
}

func (s *stubSubscriptionRepo) ListPending(context.Context, *uuid.UUID, pagination.Params) ([]models.StockNotification, string, error) {
	return nil, "", nil
}

func (s *stubSubscriptionRepo) MarkNotified(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

type stubNotificationProducts struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubNotificationProducts) FindByID(_ context.Context, id uuid.UUID, includeUnpublished bool) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok || (!product.Published && !includeUnpublished) {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func newNotificationService(t *testing.T, repo *stubSubscriptionRepo, products *stubNotificationProducts) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Products: products,
		Logger:   logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestSubscribeLowercasesEmail(t *testing.T) {
	productID := uuid.New()
	repo := &stubSubscriptionRepo{}
	products := &stubNotificationProducts{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Published: true},
	}}
	svc := newNotificationService(t, repo, products)

	resp, err := svc.Subscribe(context.Background(), SubscribeRequest{
		Email:     "  Shopper@Example.COM ",
		ProductID: productID,
	})
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", repo.lastEmail)
	assert.Equal(t, "shopper@example.com", resp.Email)
	assert.True(t, repo.created)
}

func TestSubscribeReturnsExistingPendingRow(t *testing.T) {
	productID := uuid.New()
	existing := &models.StockNotification{
		ID:        uuid.New(),
		Email:     "shopper@example.com",
		ProductID: productID,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	repo := &stubSubscriptionRepo{existing: existing}
	products := &stubNotificationProducts{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Published: true},
	}}
	svc := newNotificationService(t, repo, products)

	resp, err := svc.Subscribe(context.Background(), SubscribeRequest{
		Email:     "shopper@example.com",
		ProductID: productID,
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	assert.False(t, repo.created)
}

func TestSubscribeRejectsDraftProduct(t *testing.T) {
	productID := uuid.New()
	repo := &stubSubscriptionRepo{}
	products := &stubNotificationProducts{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Published: false},
	}}
	svc := newNotificationService(t, repo, products)

	_, err := svc.Subscribe(context.Background(), SubscribeRequest{
		Email:     "shopper@example.com",
		ProductID: productID,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.As(err).Code())
}

func TestSubscribeRejectsUnknownProduct(t *testing.T) {
	repo := &stubSubscriptionRepo{}
	products := &stubNotificationProducts{products: map[uuid.UUID]*models.Product{}}
	svc := newNotificationService(t, repo, products)

	_, err := svc.Subscribe(context.Background(), SubscribeRequest{
		Email:     "shopper@example.com",
		ProductID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.As(err).Code())
}
