package addresses

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
)

// Service manages a user's shipping addresses.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req AddressRequest) (*AddressResponse, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, req AddressRequest) (*AddressResponse, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

type addressRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) (*models.Address, error)
	Update(ctx context.Context, address *models.Address) (*models.Address, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo addressRepository
	logg *logger.Logger
}

// NewService constructs the address service.
func NewService(repo addressRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing addresses")
	}
	out := make([]AddressResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewAddressResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	created, err := s.repo.Create(ctx, req.ToModel(userID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating address")
	}
	resp := NewAddressResponse(created)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	if err := s.authorize(ctx, userID, addressID); err != nil {
		return nil, err
	}

	model := req.ToModel(userID)
	model.ID = addressID
	updated, err := s.repo.Update(ctx, model)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating address")
	}
	resp := NewAddressResponse(updated)
	return &resp, nil
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := s.authorize(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.repo.SetDefault(ctx, userID, addressID); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "address not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "setting default address")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := s.authorize(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, addressID); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "address not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting address")
	}
	return nil
}

// authorize distinguishes a missing row from a row owned by someone else.
func (s *service) authorize(ctx context.Context, userID, addressID uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "address not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading address")
	}
	if row.UserID != userID {
		return apperrors.New(apperrors.CodeForbidden, "address belongs to another user")
	}
	return nil
}
