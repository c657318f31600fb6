package notifications

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/poultrygear/poultrygear-backend/pkg/db/dbtest"
	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/pagination"
)

func seedNotificationProduct(t *testing.T, gdb *gorm.DB) uuid.UUID {
	t.Helper()
	category := &models.Category{
		Slug:   fmt.Sprintf("cat-%s", uuid.NewString()[:8]),
		NameEn: "Feeders",
		NameAr: "معالف",
	}
	require.NoError(t, gdb.Create(category).Error)

	product := &models.Product{
		CategoryID: category.ID,
		Slug:       fmt.Sprintf("prod-%s", uuid.NewString()[:8]),
		NameEn:     "Feeder",
		NameAr:     "معلف",
		Price:      decimal.RequireFromString("20.00"),
		Currency:   "USD",
		Published:  true,
	}
	require.NoError(t, gdb.Create(product).Error)
	return product.ID
}

func TestSubscribeIsIdempotentWhilePending(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewRepository(gdb)
	ctx := context.Background()
	productID := seedNotificationProduct(t, gdb)

	first, created, err := repo.Subscribe(ctx, "shopper@example.com", productID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.Subscribe(ctx, "shopper@example.com", productID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, gdb.Model(&models.StockNotification{}).
		Where("email = ? AND product_id = ?", "shopper@example.com", productID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubscribeAllowedAgainAfterNotified(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewRepository(gdb)
	ctx := context.Background()
	productID := seedNotificationProduct(t, gdb)

	first, _, err := repo.Subscribe(ctx, "shopper@example.com", productID)
	require.NoError(t, err)

	affected, err := repo.MarkNotified(ctx, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	second, created, err := repo.Subscribe(ctx, "shopper@example.com", productID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestListPendingExcludesNotifiedRows(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	notified := seedNotificationProduct(t, gdb)
	pending := seedNotificationProduct(t, gdb)

	_, _, err := repo.Subscribe(ctx, "a@example.com", notified)
	require.NoError(t, err)
	_, _, err = repo.Subscribe(ctx, "b@example.com", pending)
	require.NoError(t, err)

	_, err = repo.MarkNotified(ctx, notified)
	require.NoError(t, err)

	rows, _, err := repo.ListPending(ctx, nil, pagination.Params{Limit: 50})
	require.NoError(t, err)
	for _, row := range rows {
		assert.False(t, row.Notified)
		assert.NotEqual(t, notified, row.ProductID)
	}
}
