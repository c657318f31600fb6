package waitlist

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

// JoinRequest is a public waitlist signup.
type JoinRequest struct {
	Email  string  `json:"email" validate:"required,email,max=255"`
	Name   *string `json:"name" validate:"omitempty,max=150"`
	Locale string  `json:"locale" validate:"omitempty,oneof=en ar"`
}

// EntryResponse is a single signup.
type EntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListResponse is a cursor page of signups.
type ListResponse struct {
	Entries    []EntryResponse `json:"entries"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

// Service manages the pre-launch waitlist.
type Service interface {
	Join(ctx context.Context, req JoinRequest) (*EntryResponse, error)
	List(ctx context.Context, params pagination.Params) (*ListResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type entryRepository interface {
	Create(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, bool, error)
	List(ctx context.Context, params pagination.Params) ([]models.WaitlistEntry, string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type service struct {
	repo entryRepository
	logg *logger.Logger
}

// ServiceParams bundles the waitlist dependencies.
type ServiceParams struct {
	Repo   entryRepository
	Logger *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("waitlist repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) Join(ctx context.Context, req JoinRequest) (*EntryResponse, error) {
	locale := req.Locale
	if locale == "" {
		locale = "en"
	}
	entry := &models.WaitlistEntry{
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Name:   req.Name,
		Locale: locale,
	}

	row, created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "joining waitlist")
	}
	if created {
		s.logg.Info(s.logg.WithField(ctx, "waitlist_entry_id", row.ID.String()), "waitlist signup")
	}
	return newEntryResponse(row), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing waitlist entries")
	}
	out := make([]EntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *newEntryResponse(&rows[i]))
	}
	return &ListResponse{Entries: out, NextCursor: nextCursor}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "waitlist entry not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting waitlist entry")
	}
	return nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, err, "counting waitlist entries")
	}
	return count, nil
}

func newEntryResponse(row *models.WaitlistEntry) *EntryResponse {
	return &EntryResponse{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		Locale:    row.Locale,
		CreatedAt: row.CreatedAt,
	}
}
