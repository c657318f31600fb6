package users

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

	"github.com/poultrygear/poultrygear-backend/pkg/config"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
	"github.com/poultrygear/poultrygear-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail       map[string]*models.User
	byID          map[uuid.UUID]*models.User
	created       []*models.User
	createErr     error
	lastLoginSeen *time.Time
	passwordSet   string
	deleted       []uuid.UUID
	deleteErr     error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserRepo) add(user *models.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	s.created = append(s.created, user)
	s.add(user)
	return user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, at time.Time) error {
	s.lastLoginSeen = &at
	return nil
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, updates map[string]any) error {
	user := s.byID[id]
	if v, ok := updates["first_name"]; ok {
		user.FirstName = v.(string)
	}
	if v, ok := updates["last_name"]; ok {
		user.LastName = v.(string)
	}
	return nil
}

func (s *stubUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	s.passwordSet = hash
	s.byID[id].PasswordHash = hash
	return nil
}

func (s *stubUserRepo) ListCustomers(_ context.Context, _ pagination.Params) ([]models.User, string, error) {
	var rows []models.User
	for _, user := range s.byID {
		if user.Role == enums.UserRoleUser {
			rows = append(rows, *user)
		}
	}
	return rows, "", nil
}

func (s *stubUserRepo) CountCustomers(_ context.Context) (int64, error) {
	var count int64
	for _, user := range s.byID {
		if user.Role == enums.UserRoleUser {
			count++
		}
	}
	return count, nil
}

func (s *stubUserRepo) ListUsers(_ context.Context, _ pagination.Params) ([]models.User, string, error) {
	var rows []models.User
	for _, user := range s.byID {
		rows = append(rows, *user)
	}
	return rows, "", nil
}

func (s *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	user, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.byEmail, user.Email)
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(_ context.Context, _, _ string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-access-id", "new-refresh-token", nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "poultrygear-test",
		ExpirationMinutes: 15,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:        repo,
		Sessions:    sessions,
		JWTConfig:   testJWTConfig(),
		PasswordCfg: testPasswordConfig(),
		NewAccessID: func() string { return "access-id-1" },
		GuestEmail:  "guest@poultrygear.local",
		Now:         func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Logger:      logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         enums.UserRoleUser,
		IsActive:     active,
		CreatedAt:    time.Now(),
	}
	repo.add(user)
	return user
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestRegisterHashesPasswordAndDefaultsLocale(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})

	profile, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "New.Customer@Example.com ",
		Password:  "correct horse battery",
		FirstName: "New",
		LastName:  "Customer",
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "new.customer@example.com", created.Email)
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)
	assert.Equal(t, "en", created.PreferredLocale)
	assert.Equal(t, "user", profile.Role)

	ok, err := security.VerifyPassword("correct horse battery", created.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginSucceedsWithValidCredentials(t *testing.T) {
	repo := newStubUserRepo()
	sessions := &stubSessions{}
	svc := newTestService(t, repo, sessions)
	user := seedUser(t, repo, "shopper@example.com", "s3cret-passw0rd", true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Shopper@Example.com",
		Password: "s3cret-passw0rd",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "refresh-access-id-1", resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)
	require.NotNil(t, repo.lastLoginSeen)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	seedUser(t, repo, "shopper@example.com", "s3cret-passw0rd", true)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "shopper@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code())
	assert.Equal(t, invalidCredentialsMessage, appErr.Message())
}

func TestLoginRejectsUnknownEmailWithSameMessage(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "anything",
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, invalidCredentialsMessage, appErr.Message())
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	seedUser(t, repo, "disabled@example.com", "s3cret-passw0rd", false)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "disabled@example.com",
		Password: "s3cret-passw0rd",
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, newStubUserRepo(), sessions)

	require.NoError(t, svc.Logout(context.Background(), "access-id-9"))
	assert.Equal(t, []string{"access-id-9"}, sessions.revoked)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	user := seedUser(t, repo, "shopper@example.com", "old-password-1", true)

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-22",
	})
	require.Error(t, err)
	assert.Empty(t, repo.passwordSet)

	err = svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.passwordSet)

	ok, err := security.VerifyPassword("new-password-22", repo.passwordSet)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateProfileAppliesOnlyProvidedFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	user := seedUser(t, repo, "shopper@example.com", "s3cret-passw0rd", true)

	newFirst := "Updated"
	profile, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		FirstName: &newFirst,
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated", profile.FirstName)
	assert.Equal(t, "User", profile.LastName)
}

func TestListUsersIncludesAllRoles(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	seedUser(t, repo, "shopper@example.com", "s3cret-passw0rd", true)
	admin := seedUser(t, repo, "admin@example.com", "s3cret-passw0rd", true)
	admin.Role = enums.UserRoleAdmin

	resp, err := svc.ListUsers(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, resp.Users, 2)

	customers, err := svc.ListCustomers(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, customers.Users, 1)
}

func TestDeleteUserRemovesAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	actor := seedUser(t, repo, "admin@example.com", "s3cret-passw0rd", true)
	target := seedUser(t, repo, "shopper@example.com", "s3cret-passw0rd", true)

	require.NoError(t, svc.DeleteUser(context.Background(), actor.ID, target.ID))
	assert.Equal(t, []uuid.UUID{target.ID}, repo.deleted)
}

func TestDeleteUserRejectsSelfDeletion(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	actor := seedUser(t, repo, "admin@example.com", "s3cret-passw0rd", true)

	err := svc.DeleteUser(context.Background(), actor.ID, actor.ID)
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
	assert.Empty(t, repo.deleted)
}

func TestDeleteUserProtectsGuestAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	actor := seedUser(t, repo, "admin@example.com", "s3cret-passw0rd", true)
	guest := seedUser(t, repo, "guest@poultrygear.local", "unused-password", false)

	err := svc.DeleteUser(context.Background(), actor.ID, guest.ID)
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
	assert.Empty(t, repo.deleted)
}

func TestDeleteUserUnknownReturnsNotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	actor := seedUser(t, repo, "admin@example.com", "s3cret-passw0rd", true)

	err := svc.DeleteUser(context.Background(), actor.ID, uuid.New())
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
}

func TestDeleteUserBlockedWhileOrdersExist(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})
	actor := seedUser(t, repo, "admin@example.com", "s3cret-passw0rd", true)
	target := seedUser(t, repo, "shopper@example.com", "s3cret-passw0rd", true)
	repo.deleteErr = gorm.ErrForeignKeyViolated

	err := svc.DeleteUser(context.Background(), actor.ID, target.ID)
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
	assert.Empty(t, repo.deleted)
}
