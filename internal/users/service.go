package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/auth"
	"github.com/poultrygear/poultrygear-backend/pkg/config"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	apperrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
	"github.com/poultrygear/poultrygear-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid email or password"

// Service exposes account and authentication operations.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Profile, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, userID uuid.UUID, oldAccessID, refreshToken string) (*LoginResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	ListCustomers(ctx context.Context, params pagination.Params) (*ListResponse, error)
	CustomerCount(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context, params pagination.Params) (*ListResponse, error)
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ListCustomers(ctx context.Context, params pagination.Params) ([]models.User, string, error)
	CountCustomers(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context, params pagination.Params) ([]models.User, string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type accessIDFunc func() string

type service struct {
	repo        userRepository
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	newAccessID accessIDFunc
	guestEmail  string
	now         func() time.Time
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required by NewService.
type ServiceParams struct {
	Repo        userRepository
	Sessions    sessionManager
	JWTConfig   config.JWTConfig
	PasswordCfg config.PasswordConfig
	NewAccessID accessIDFunc
	GuestEmail  string
	Now         func() time.Time
	Logger      *logger.Logger
}

// NewService validates dependencies and constructs the users service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.NewAccessID == nil {
		return nil, fmt.Errorf("access id generator is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}

	return &service{
		repo:        params.Repo,
		sessions:    params.Sessions,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordCfg,
		newAccessID: params.NewAccessID,
		guestEmail:  params.GuestEmail,
		now:         params.Now,
		logg:        params.Logger,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Profile, error) {
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "hashing password")
	}

	created, err := s.repo.Create(ctx, req.ToModel(hash))
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "an account with this email already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating user")
	}

	ctx = s.logg.WithUserID(ctx, created.ID.String())
	s.logg.Info(ctx, "user registered")

	profile := NewProfile(created)
	return &profile, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.recordLogin(ctx, user.ID)
	return resp, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "revoking session")
	}
	return nil
}

func (s *service) Refresh(ctx context.Context, userID uuid.UUID, oldAccessID, refreshToken string) (*LoginResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "session no longer valid")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}
	if !user.IsActive {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "account is disabled")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, oldAccessID, refreshToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, err, "invalid refresh token")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "minting access token")
	}

	return &LoginResponse{
		AccessToken:  token,
		RefreshToken: newRefresh,
		User:         NewProfile(user),
	}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}
	profile := NewProfile(user)
	return &profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			updates["phone"] = nil
		} else {
			updates["phone"] = phone
		}
	}
	if req.PreferredLocale != nil {
		updates["preferred_locale"] = *req.PreferredLocale
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating profile")
		}
	}

	return s.Profile(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}

	ok, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return apperrors.New(apperrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "hashing password")
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "updating password")
	}

	s.logg.Info(s.logg.WithUserID(ctx, userID.String()), "password changed")
	return nil
}

func (s *service) ListCustomers(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	rows, nextCursor, err := s.repo.ListCustomers(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing customers")
	}

	profiles := make([]Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, NewProfile(&rows[i]))
	}
	return &ListResponse{Users: profiles, NextCursor: nextCursor}, nil
}

func (s *service) CustomerCount(ctx context.Context) (int64, error) {
	count, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, err, "counting customers")
	}
	return count, nil
}

func (s *service) ListUsers(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	rows, nextCursor, err := s.repo.ListUsers(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing users")
	}

	profiles := make([]Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, NewProfile(&rows[i]))
	}
	return &ListResponse{Users: profiles, NextCursor: nextCursor}, nil
}

func (s *service) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperrors.New(apperrors.CodeValidation, "cannot delete your own account")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}
	if s.guestEmail != "" && strings.EqualFold(user.Email, s.guestEmail) {
		return apperrors.New(apperrors.CodeValidation, "the guest checkout account cannot be deleted")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return apperrors.New(apperrors.CodeValidation, "user has orders and cannot be deleted")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting user")
	}

	s.logg.Info(s.logg.WithUserID(ctx, userID.String()), "user deleted")
	return nil
}

func (s *service) authenticate(ctx context.Context, req LoginRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}
	if !user.IsActive {
		return nil, apperrors.New(apperrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, apperrors.New(apperrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User) (*LoginResponse, error) {
	accessID := s.newAccessID()
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating session")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "minting access token")
	}

	return &LoginResponse{
		AccessToken:  token,
		RefreshToken: refreshToken,
		User:         NewProfile(user),
	}, nil
}

func (s *service) recordLogin(ctx context.Context, userID uuid.UUID) {
	if err := s.repo.UpdateLastLogin(ctx, userID, s.now()); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "failed to record last login")
	}
}
