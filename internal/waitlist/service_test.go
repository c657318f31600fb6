package waitlist

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

type stubEntryRepo struct {
	byEmail map[string]*models.WaitlistEntry
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{byEmail: make(map[string]*models.WaitlistEntry)}
}

func (s *stubEntryRepo) Create(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, bool, error) {
	if existing, ok := s.byEmail[entry.Email]; ok {
		return existing, false, nil
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	s.byEmail[entry.Email] = entry
	return entry, true, nil
}

func (s *stubEntryRepo) List(_ context.Context, _ pagination.Params) ([]models.WaitlistEntry, string, error) {
	var out []models.WaitlistEntry
	for _, entry := range s.byEmail {
		out = append(out, *entry)
	}
	return out, "", nil
}

func (s *stubEntryRepo) Delete(_ context.Context, id uuid.UUID) error {
	for email, entry := range s.byEmail {
		if entry.ID == id {
			delete(s.byEmail, email)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubEntryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.byEmail)), nil
}

func newWaitlistService(t *testing.T, repo *stubEntryRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Logger: logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestJoinNormalizesEmailAndDefaultsLocale(t *testing.T) {
	repo := newStubEntryRepo()
	svc := newWaitlistService(t, repo)

	resp, err := svc.Join(context.Background(), JoinRequest{Email: "  Farmer@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, "farmer@example.com", resp.Email)
	assert.Equal(t, "en", resp.Locale)
}

func TestJoinTwiceReturnsExistingEntry(t *testing.T) {
	repo := newStubEntryRepo()
	svc := newWaitlistService(t, repo)

	first, err := svc.Join(context.Background(), JoinRequest{Email: "farmer@example.com", Locale: "ar"})
	require.NoError(t, err)

	second, err := svc.Join(context.Background(), JoinRequest{Email: "Farmer@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ar", second.Locale)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestDeleteUnknownEntry(t *testing.T) {
	repo := newStubEntryRepo()
	svc := newWaitlistService(t, repo)

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.As(err).Code())
}

func TestDeleteRemovesEntry(t *testing.T) {
	repo := newStubEntryRepo()
	svc := newWaitlistService(t, repo)

	created, err := svc.Join(context.Background(), JoinRequest{Email: "farmer@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
