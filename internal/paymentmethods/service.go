package paymentmethods

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
)

// Service manages a user's saved payment methods.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]PaymentMethodResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req PaymentMethodRequest) (*PaymentMethodResponse, error)
	Update(ctx context.Context, userID, methodID uuid.UUID, req PaymentMethodRequest) (*PaymentMethodResponse, error)
	SetDefault(ctx context.Context, userID, methodID uuid.UUID) error
	Delete(ctx context.Context, userID, methodID uuid.UUID) error
}

type methodRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
	Create(ctx context.Context, method *models.PaymentMethod) (*models.PaymentMethod, error)
	Update(ctx context.Context, method *models.PaymentMethod) (*models.PaymentMethod, error)
	SetDefault(ctx context.Context, userID, methodID uuid.UUID) error
	Delete(ctx context.Context, userID, methodID uuid.UUID) error
}

type service struct {
	repo methodRepository
	logg *logger.Logger
}

func NewService(repo methodRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment method repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]PaymentMethodResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing payment methods")
	}
	out := make([]PaymentMethodResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewPaymentMethodResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	created, err := s.repo.Create(ctx, req.ToModel(userID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating payment method")
	}
	resp := NewPaymentMethodResponse(created)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, userID, methodID uuid.UUID, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	if err := s.authorize(ctx, userID, methodID); err != nil {
		return nil, err
	}

	model := req.ToModel(userID)
	model.ID = methodID
	updated, err := s.repo.Update(ctx, model)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating payment method")
	}
	resp := NewPaymentMethodResponse(updated)
	return &resp, nil
}

func (s *service) SetDefault(ctx context.Context, userID, methodID uuid.UUID) error {
	if err := s.authorize(ctx, userID, methodID); err != nil {
		return err
	}
	if err := s.repo.SetDefault(ctx, userID, methodID); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "payment method not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "setting default payment method")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID, methodID uuid.UUID) error {
	if err := s.authorize(ctx, userID, methodID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, methodID); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "payment method not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting payment method")
	}
	return nil
}

func (s *service) authorize(ctx context.Context, userID, methodID uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, methodID)
	if err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "payment method not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading payment method")
	}
	if row.UserID != userID {
		return apperrors.New(apperrors.CodeForbidden, "payment method belongs to another user")
	}
	return nil
}
