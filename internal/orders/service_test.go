package orders

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
)

type stubOrderRepo struct {
	byID map[uuid.UUID]*models.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderRepo) List(_ context.Context, filter ListFilter) ([]models.Order, string, error) {
	var rows []models.Order
	for _, o := range s.byID {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		rows = append(rows, *o)
	}
	return rows, "", nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.byID[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus) error {
	s.byID[id].Status = status
	return nil
}

func (s *stubOrderRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status enums.PaymentStatus) error {
	s.byID[id].PaymentStatus = status
	return nil
}

func (s *stubOrderRepo) UpdateNotes(_ context.Context, id uuid.UUID, notes *string) error {
	s.byID[id].Notes = notes
	return nil
}

func (s *stubOrderRepo) GetStats(_ context.Context) (*Stats, error) {
	return &Stats{TotalOrders: int64(len(s.byID)), PaidRevenue: decimal.Zero}, nil
}

func newOrdersService(t *testing.T, repo *stubOrderRepo) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}))
	require.NoError(t, err)
	return svc
}

func seedOrder(repo *stubOrderRepo, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		OrderNumber:   "ORD-20260301-0042",
		Status:        status,
		PaymentStatus: enums.PaymentStatusPending,
		TotalAmount:   decimal.RequireFromString("52.50"),
		Currency:      "USD",
		CustomerName:  "Sara Hassan",
		CustomerEmail: "shopper@example.com",
		ShipToName:    "Sara Hassan",
		ShipToLine1:   "1 Farm Road",
		ShipToCity:    "Riyadh",
		ShipToCountry: "SA",
		Items: []models.OrderItem{
			{
				ID:            uuid.New(),
				ProductNameEn: "Chicken Feeder",
				ProductNameAr: "معلف دجاج",
				Quantity:      2,
				UnitPrice:     decimal.RequireFromString("20.00"),
				Subtotal:      decimal.RequireFromString("40.00"),
			},
		},
		CreatedAt: time.Now(),
	}
	repo.byID[order.ID] = order
	return order
}

func TestGetForUserRejectsForeignOrder(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrdersService(t, repo)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusPending)

	_, err := svc.GetForUser(context.Background(), uuid.New(), order.ID)
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code())
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrdersService(t, repo)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusPending)

	resp, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, "processing", resp.Status)

	resp, err = svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, "shipped", resp.Status)
}

func TestUpdateStatusRejectsBackwardTransition(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrdersService(t, repo)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusDelivered)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "pending"})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
	assert.Equal(t, http.StatusBadRequest, apperrors.MetadataFor(appErr.Code()).HTTPStatus)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrdersService(t, repo)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "teleported"})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestUpdatePaymentStatusFollowsTransitionTable(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrdersService(t, repo)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusPending)

	resp, err := svc.UpdatePaymentStatus(context.Background(), order.ID, UpdatePaymentStatusRequest{PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)

	_, err = svc.UpdatePaymentStatus(context.Background(), order.ID, UpdatePaymentStatusRequest{PaymentStatus: "pending"})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestUpdateNotesClearsWhenEmpty(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrdersService(t, repo)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusPending)

	resp, err := svc.UpdateNotes(context.Background(), order.ID, UpdateNotesRequest{Notes: "leave at gate"})
	require.NoError(t, err)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "leave at gate", *resp.Notes)

	resp, err = svc.UpdateNotes(context.Background(), order.ID, UpdateNotesRequest{Notes: "  "})
	require.NoError(t, err)
	assert.Nil(t, resp.Notes)
}

func TestRenderInvoiceEnforcesOwnership(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrdersService(t, repo)
	ownerID := uuid.New()
	order := seedOrder(repo, ownerID, enums.OrderStatusPending)

	html, err := svc.RenderInvoice(context.Background(), &ownerID, order.ID)
	require.NoError(t, err)
	assert.Contains(t, string(html), "ORD-20260301-0042")
	assert.Contains(t, string(html), "Chicken Feeder")
	assert.Contains(t, string(html), "معلف دجاج")

	other := uuid.New()
	_, err = svc.RenderInvoice(context.Background(), &other, order.ID)
	require.Error(t, err)

	// Admins pass nil and bypass the ownership check.
	_, err = svc.RenderInvoice(context.Background(), nil, order.ID)
	require.NoError(t, err)
}

func TestListForUserScopesToOwner(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrdersService(t, repo)
	owner := uuid.New()
	seedOrder(repo, owner, enums.OrderStatusPending)
	seedOrder(repo, uuid.New(), enums.OrderStatusPending)

	resp, err := svc.ListForUser(context.Background(), owner, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, owner, resp.Orders[0].UserID)
}
