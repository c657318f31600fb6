package contact

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
)

// Service handles public contact submissions and admin triage.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*MessageResponse, error)
	List(ctx context.Context, filter ListFilter) (*ListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*MessageResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*MessageResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountNew(ctx context.Context) (int64, error)
}

type messageRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) (*models.ContactMessage, error)
	List(ctx context.Context, filter ListFilter) ([]models.ContactMessage, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ContactMessageStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountNew(ctx context.Context) (int64, error)
}

type service struct {
	repo messageRepository
	logg *logger.Logger
}

// ServiceParams bundles the contact message dependencies.
type ServiceParams struct {
	Repo   messageRepository
	Logger *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("contact message repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*MessageResponse, error) {
	message := req.ToModel()
	message.Email = strings.ToLower(strings.TrimSpace(message.Email))

	row, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating contact message")
	}
	s.logg.Info(s.logg.WithField(ctx, "contact_message_id", row.ID.String()), "contact message received")
	return NewMessageResponse(row), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	rows, nextCursor, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing contact messages")
	}
	out := make([]MessageResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *NewMessageResponse(&rows[i]))
	}
	return &ListResponse{Messages: out, NextCursor: nextCursor}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MessageResponse, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewMessageResponse(row), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*MessageResponse, error) {
	status, err := enums.ParseContactMessageStatus(req.Status)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown contact message status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "contact message not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating contact message status")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "contact message not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting contact message")
	}
	return nil
}

func (s *service) CountNew(ctx context.Context) (int64, error) {
	count, err := s.repo.CountNew(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, err, "counting new contact messages")
	}
	return count, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "contact message not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading contact message")
	}
	return row, nil
}
