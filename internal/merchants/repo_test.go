package merchants

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/deliveryservices/backend/pkg/db/models"
)

func setupMerchantsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	merchantsTable := `
CREATE TABLE IF NOT EXISTS merchants (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  email TEXT NOT NULL,
  address TEXT NOT NULL,
  current_balance NUMERIC NOT NULL DEFAULT 0,
  total_paid_out NUMERIC NOT NULL DEFAULT 0,
  user_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	payoutsTable := `
CREATE TABLE IF NOT EXISTS merchant_payouts (
  id TEXT PRIMARY KEY,
  merchant_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  paid_at DATETIME NOT NULL,
  notes TEXT,
  payment_method TEXT,
  processed_by TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(merchantsTable).Error)
	require.NoError(t, db.Exec(payoutsTable).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM merchant_payouts")
		db.Exec("DELETE FROM merchants")
	})
	return db
}

func TestMerchantRepoCreateAndFind(t *testing.T) {
	db := setupMerchantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	merchant := &models.Merchant{
		ID:             uuid.New(),
		Name:           "Corner Grocer",
		PhoneNumber:    "555-0100",
		Email:          "owner@cornergrocer.test",
		Address:        "12 Main St",
		CurrentBalance: decimal.RequireFromString("15.25"),
	}
	_, err := repo.CreateMerchant(ctx, merchant)
	require.NoError(t, err)

	found, err := repo.FindMerchant(ctx, merchant.ID)
	require.NoError(t, err)
	assert.Equal(t, merchant.Name, found.Name)
	assert.True(t, found.CurrentBalance.Equal(decimal.RequireFromString("15.25")))

	_, err = repo.FindMerchant(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMerchantRepoUpdateBalance(t *testing.T) {
	db := setupMerchantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	merchant := &models.Merchant{
		ID:          uuid.New(),
		Name:        "Corner Grocer",
		PhoneNumber: "555-0100",
		Email:       "owner@cornergrocer.test",
		Address:     "12 Main St",
	}
	_, err := repo.CreateMerchant(ctx, merchant)
	require.NoError(t, err)

	err = repo.UpdateMerchant(ctx, merchant.ID, map[string]any{
		"current_balance": decimal.RequireFromString("99.99"),
		"total_paid_out":  decimal.RequireFromString("1.00"),
	})
	require.NoError(t, err)

	found, err := repo.FindMerchant(ctx, merchant.ID)
	require.NoError(t, err)
	assert.True(t, found.CurrentBalance.Equal(decimal.RequireFromString("99.99")))
	assert.True(t, found.TotalPaidOut.Equal(decimal.RequireFromString("1.00")))
}

func TestMerchantRepoPayoutsOrderedByPaidAt(t *testing.T) {
	db := setupMerchantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	merchant := &models.Merchant{
		ID:          uuid.New(),
		Name:        "Corner Grocer",
		PhoneNumber: "555-0100",
		Email:       "owner@cornergrocer.test",
		Address:     "12 Main St",
	}
	_, err := repo.CreateMerchant(ctx, merchant)
	require.NoError(t, err)

	older := &models.MerchantPayout{
		ID:         uuid.New(),
		MerchantID: merchant.ID,
		Amount:     decimal.RequireFromString("10.00"),
		PaidAt:     time.Now().UTC().Add(-48 * time.Hour),
	}
	newer := &models.MerchantPayout{
		ID:         uuid.New(),
		MerchantID: merchant.ID,
		Amount:     decimal.RequireFromString("20.00"),
		PaidAt:     time.Now().UTC(),
	}
	_, err = repo.CreatePayout(ctx, older)
	require.NoError(t, err)
	_, err = repo.CreatePayout(ctx, newer)
	require.NoError(t, err)

	payouts, err := repo.ListPayoutsByMerchant(ctx, merchant.ID)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	assert.Equal(t, newer.ID, payouts[0].ID)
	assert.Equal(t, older.ID, payouts[1].ID)

	other, err := repo.ListPayoutsByMerchant(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
