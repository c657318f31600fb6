package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
)

// Service exposes order reads and the admin mutation surface. Totals are
// immutable after checkout; only statuses and notes change.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResponse, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error)
	ListAll(ctx context.Context, filter ListFilter) (*ListResponse, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, req UpdatePaymentStatusRequest) (*OrderResponse, error)
	UpdateNotes(ctx context.Context, orderID uuid.UUID, req UpdateNotesRequest) (*OrderResponse, error)
	RenderInvoice(ctx context.Context, userID *uuid.UUID, orderID uuid.UUID) ([]byte, error)
	GetStats(ctx context.Context) (*StatsResponse, error)
}

type orderRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Order, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo orderRepository
	logg *logger.Logger
}

func NewService(repo orderRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResponse, error) {
	return s.list(ctx, ListFilter{UserID: &userID, Pagination: params})
}

func (s *service) ListAll(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	return s.list(ctx, filter)
}

func (s *service) list(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	rows, nextCursor, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing orders")
	}
	out := make([]OrderResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewOrderResponse(&rows[i]))
	}
	return &ListResponse{Orders: out, NextCursor: nextCursor}, nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.New(apperrors.CodeForbidden, "order belongs to another user")
	}
	resp := NewOrderResponse(order)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := NewOrderResponse(order)
	return &resp, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid order status")
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, apperrors.New(apperrors.CodeValidation, "status transition not allowed").
			WithDetails(map[string]any{"from": order.Status.String(), "to": target.String()})
	}

	if err := s.repo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating order status")
	}

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(s.logg.WithField(ctx, "status", target.String()), "order status updated")
	return s.Get(ctx, orderID)
}

func (s *service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, req UpdatePaymentStatusRequest) (*OrderResponse, error) {
	target, err := enums.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid payment status")
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.PaymentStatus.CanTransitionTo(target) {
		return nil, apperrors.New(apperrors.CodeValidation, "payment status transition not allowed").
			WithDetails(map[string]any{"from": order.PaymentStatus.String(), "to": target.String()})
	}

	if err := s.repo.UpdatePaymentStatus(ctx, orderID, target); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating payment status")
	}
	return s.Get(ctx, orderID)
}

func (s *service) UpdateNotes(ctx context.Context, orderID uuid.UUID, req UpdateNotesRequest) (*OrderResponse, error) {
	if _, err := s.load(ctx, orderID); err != nil {
		return nil, err
	}

	var notes *string
	if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
		if len(trimmed) > 1000 {
			trimmed = trimmed[:1000]
		}
		notes = &trimmed
	}
	if err := s.repo.UpdateNotes(ctx, orderID, notes); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating order notes")
	}
	return s.Get(ctx, orderID)
}

// RenderInvoice returns the HTML invoice. A nil userID means an admin is
// asking; owners only see their own orders.
func (s *service) RenderInvoice(ctx context.Context, userID *uuid.UUID, orderID uuid.UUID) ([]byte, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != nil && order.UserID != *userID {
		return nil, apperrors.New(apperrors.CodeForbidden, "order belongs to another user")
	}
	html, err := renderInvoiceHTML(order)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "rendering invoice")
	}
	return html, nil
}

func (s *service) GetStats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading order stats")
	}
	return &StatsResponse{
		TotalOrders:   stats.TotalOrders,
		PendingOrders: stats.PendingOrders,
		PaidRevenue:   stats.PaidRevenue,
	}, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading order")
	}
	return order, nil
}
