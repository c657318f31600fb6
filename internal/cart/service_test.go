package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
)

type lineKey struct {
	user    uuid.UUID
	product uuid.UUID
}

type stubCartRepo struct {
	lines    map[lineKey]int
	products map[uuid.UUID]*models.Product
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		lines:    map[lineKey]int{},
		products: map[uuid.UUID]*models.Product{},
	}
}

func (s *stubCartRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	for key, qty := range s.lines {
		if key.user != userID {
			continue
		}
		items = append(items, models.CartItem{
			ID:        uuid.New(),
			UserID:    key.user,
			ProductID: key.product,
			Quantity:  qty,
			Product:   s.products[key.product],
		})
	}
	return items, nil
}

func (s *stubCartRepo) Add(_ context.Context, userID, productID uuid.UUID, quantity int) error {
	s.lines[lineKey{userID, productID}] += quantity
	return nil
}

func (s *stubCartRepo) SetQuantity(_ context.Context, userID, productID uuid.UUID, quantity int) error {
	key := lineKey{userID, productID}
	if _, ok := s.lines[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.lines[key] = quantity
	return nil
}

func (s *stubCartRepo) Remove(_ context.Context, userID, productID uuid.UUID) error {
	key := lineKey{userID, productID}
	if _, ok := s.lines[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.lines, key)
	return nil
}

func (s *stubCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	for key := range s.lines {
		if key.user == userID {
			delete(s.lines, key)
		}
	}
	return nil
}

type stubCartProducts struct {
	published map[uuid.UUID]*models.Product
}

func (s *stubCartProducts) FindByID(_ context.Context, id uuid.UUID, includeUnpublished bool) (*models.Product, error) {
	p, ok := s.published[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if !p.Published && !includeUnpublished {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func newCartService(t *testing.T, repo *stubCartRepo, products *stubCartProducts) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:            repo,
		Products:        products,
		DefaultCurrency: "USD",
		Logger:          logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func cartProduct(published bool, price string) *models.Product {
	return &models.Product{
		ID:        uuid.New(),
		Slug:      "feeder",
		NameEn:    "Feeder",
		NameAr:    "معلف",
		Price:     decimal.RequireFromString(price),
		Currency:  "USD",
		Published: published,
		InStock:   true,
	}
}

func TestAddItemCollapsesIntoExistingLine(t *testing.T) {
	repo := newStubCartRepo()
	product := cartProduct(true, "10.00")
	repo.products[product.ID] = product
	svc := newCartService(t, repo, &stubCartProducts{published: map[uuid.UUID]*models.Product{product.ID: product}})
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	resp, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("50.00")))
}

func TestAddItemRejectsDraftProduct(t *testing.T) {
	repo := newStubCartRepo()
	draft := cartProduct(false, "10.00")
	svc := newCartService(t, repo, &stubCartProducts{published: map[uuid.UUID]*models.Product{draft.ID: draft}})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: draft.ID, Quantity: 1})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	repo := newStubCartRepo()
	product := cartProduct(true, "10.00")
	repo.products[product.ID] = product
	svc := newCartService(t, repo, &stubCartProducts{published: map[uuid.UUID]*models.Product{product.ID: product}})
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	resp, err := svc.UpdateItem(context.Background(), userID, product.ID, UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.Total.IsZero())
}

func TestUpdateMissingLineReturnsNotFound(t *testing.T) {
	repo := newStubCartRepo()
	svc := newCartService(t, repo, &stubCartProducts{published: map[uuid.UUID]*models.Product{}})

	_, err := svc.UpdateItem(context.Background(), uuid.New(), uuid.New(), UpdateItemRequest{Quantity: 2})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
}

func TestCartTotalsSumAcrossProducts(t *testing.T) {
	repo := newStubCartRepo()
	feeder := cartProduct(true, "12.50")
	waterer := cartProduct(true, "8.00")
	repo.products[feeder.ID] = feeder
	repo.products[waterer.ID] = waterer
	svc := newCartService(t, repo, &stubCartProducts{published: map[uuid.UUID]*models.Product{
		feeder.ID:  feeder,
		waterer.ID: waterer,
	}})
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: feeder.ID, Quantity: 2})
	require.NoError(t, err)
	resp, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: waterer.ID, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.ItemCount)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("33.00")))
}
