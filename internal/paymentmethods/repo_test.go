package paymentmethods

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/poultrygear/poultrygear-backend/pkg/db/dbtest"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
)

func seedMethodUser(t *testing.T, gdb *gorm.DB) uuid.UUID {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("pm-%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "!",
		FirstName:    "Pay",
		LastName:     "Tester",
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}
	require.NoError(t, gdb.Create(user).Error)
	return user.ID
}

func methodFixture(userID uuid.UUID, last4 string, isDefault bool) *models.PaymentMethod {
	return &models.PaymentMethod{
		UserID:    userID,
		Type:      "card",
		CardLast4: &last4,
		IsDefault: isDefault,
	}
}

func countMethodDefaults(t *testing.T, gdb *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, gdb.Model(&models.PaymentMethod{}).
		Where("user_id = ? AND is_default = TRUE", userID).
		Count(&count).Error)
	return count
}

func TestRepositoryFirstMethodBecomesDefault(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewRepository(gdb)
	ctx := context.Background()
	userID := seedMethodUser(t, gdb)

	created, err := repo.Create(ctx, methodFixture(userID, "4242", false))
	require.NoError(t, err)
	assert.True(t, created.IsDefault)
	assert.EqualValues(t, 1, countMethodDefaults(t, gdb, userID))
}

func TestRepositoryDefaultStaysUniquePerUser(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewRepository(gdb)
	ctx := context.Background()
	userID := seedMethodUser(t, gdb)

	first, err := repo.Create(ctx, methodFixture(userID, "4242", false))
	require.NoError(t, err)
	_, err = repo.Create(ctx, methodFixture(userID, "1881", true))
	require.NoError(t, err)
	assert.EqualValues(t, 1, countMethodDefaults(t, gdb, userID))

	require.NoError(t, repo.SetDefault(ctx, userID, first.ID))
	assert.EqualValues(t, 1, countMethodDefaults(t, gdb, userID))

	reloaded, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault)
}

func TestRepositoryDefaultsAreIndependentAcrossUsers(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	alice := seedMethodUser(t, gdb)
	bob := seedMethodUser(t, gdb)

	_, err := repo.Create(ctx, methodFixture(alice, "4242", true))
	require.NoError(t, err)
	_, err = repo.Create(ctx, methodFixture(bob, "1881", true))
	require.NoError(t, err)

	assert.EqualValues(t, 1, countMethodDefaults(t, gdb, alice))
	assert.EqualValues(t, 1, countMethodDefaults(t, gdb, bob))
}
