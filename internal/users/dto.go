package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
)

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Phone           string `json:"phone" validate:"omitempty,max=30"`
	PreferredLocale string `json:"preferredLocale" validate:"omitempty,oneof=en ar"`
}

// LoginRequest carries credentials for token issuance.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest updates mutable profile fields. Pointers distinguish
// "leave unchanged" from "set to empty".
type UpdateProfileRequest struct {
	FirstName       *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName        *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone           *string `json:"phone" validate:"omitempty,max=30"`
	PreferredLocale *string `json:"preferredLocale" validate:"omitempty,oneof=en ar"`
}

// ChangePasswordRequest swaps the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// Profile is the public projection of a user account.
type Profile struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Phone           *string    `json:"phone,omitempty"`
	Role            string     `json:"role"`
	PreferredLocale string     `json:"preferredLocale"`
	IsActive        bool       `json:"isActive"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// LoginResponse bundles the minted tokens with the authenticated profile.
type LoginResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	User         Profile `json:"user"`
}

// ListResponse is a cursor page of profiles.
type ListResponse struct {
	Users      []Profile `json:"users"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// ToModel builds the persistence model from a register request. The password
// hash is supplied separately so the DTO never carries derived secrets.
func (r RegisterRequest) ToModel(passwordHash string) *models.User {
	locale := r.PreferredLocale
	if locale == "" {
		locale = "en"
	}
	user := &models.User{
		Email:           strings.ToLower(strings.TrimSpace(r.Email)),
		PasswordHash:    passwordHash,
		FirstName:       strings.TrimSpace(r.FirstName),
		LastName:        strings.TrimSpace(r.LastName),
		Role:            enums.UserRoleUser,
		PreferredLocale: locale,
		IsActive:        true,
	}
	if phone := strings.TrimSpace(r.Phone); phone != "" {
		user.Phone = &phone
	}
	return user
}

// NewProfile projects a model into its API shape.
func NewProfile(u *models.User) Profile {
	return Profile{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		Role:            u.Role.String(),
		PreferredLocale: u.PreferredLocale,
		IsActive:        u.IsActive,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
}
