package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/deliveryservices/backend/pkg/db/models"
	"github.com/deliveryservices/backend/pkg/enums"
	"github.com/deliveryservices/backend/pkg/logger"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubReconcileStore struct {
	merchants map[uuid.UUID]*models.Merchant
	delivered map[uuid.UUID][]models.Order
	listErr   error
	updates   map[uuid.UUID]map[string]any
}

func newStubReconcileStore() *stubReconcileStore {
	return &stubReconcileStore{
		merchants: map[uuid.UUID]*models.Merchant{},
		delivered: map[uuid.UUID][]models.Order{},
		updates:   map[uuid.UUID]map[string]any{},
	}
}

func (s *stubReconcileStore) ListMerchants(context.Context) ([]models.Merchant, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	list := make([]models.Merchant, 0, len(s.merchants))
	for _, merchant := range s.merchants {
		list = append(list, *merchant)
	}
	return list, nil
}

func (s *stubReconcileStore) FindMerchantForUpdate(_ context.Context, id uuid.UUID) (*models.Merchant, error) {
	merchant, ok := s.merchants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *merchant
	return &copied, nil
}

func (s *stubReconcileStore) UpdateMerchant(_ context.Context, id uuid.UUID, updates map[string]any) error {
	merchant, ok := s.merchants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if balance, ok := updates["current_balance"].(decimal.Decimal); ok {
		merchant.CurrentBalance = balance
	}
	s.updates[id] = updates
	return nil
}

func (s *stubReconcileStore) ListDeliveredByMerchant(_ context.Context, merchantID uuid.UUID) ([]models.Order, error) {
	return s.delivered[merchantID], nil
}

func newReconcileJob(t *testing.T, store *stubReconcileStore) Job {
	t.Helper()
	job, err := NewBalanceReconcileJob(BalanceReconcileJobParams{
		Logger:               logger.New(logger.Options{ServiceName: "cron-test"}),
		DB:                   stubTxRunner{},
		MerchantReader:       store,
		MerchantRepoFactory:  func(*gorm.DB) reconcileMerchantRepo { return store },
		DeliveredRepoFactory: func(*gorm.DB) deliveredOrderReader { return store },
	})
	require.NoError(t, err)
	return job
}

func deliveredOrder(merchantID uuid.UUID, unitPrice string, quantity int) models.Order {
	return models.Order{
		ID:         uuid.New(),
		MerchantID: &merchantID,
		Status:     enums.OrderStatusDelivered,
		Items: []models.OrderItem{{
			ID:        uuid.New(),
			Quantity:  quantity,
			UnitPrice: decimal.RequireFromString(unitPrice),
			Status:    enums.OrderItemStatusDelivered,
		}},
	}
}

func TestBalanceReconcileCorrectsDrift(t *testing.T) {
	store := newStubReconcileStore()
	merchantID := uuid.New()
	store.merchants[merchantID] = &models.Merchant{
		ID:             merchantID,
		Name:           "Corner Deli",
		CurrentBalance: decimal.RequireFromString("99.99"),
		TotalPaidOut:   decimal.RequireFromString("10.00"),
	}
	store.delivered[merchantID] = []models.Order{
		deliveredOrder(merchantID, "10.00", 2),
		deliveredOrder(merchantID, "7.50", 4),
	}

	job := newReconcileJob(t, store)
	require.NoError(t, job.Run(context.Background()))

	// 20.00 + 30.00 delivered, minus 10.00 paid out
	assert.True(t, store.merchants[merchantID].CurrentBalance.Equal(decimal.RequireFromString("40.00")))
	assert.Contains(t, store.updates, merchantID)
}

func TestBalanceReconcileLeavesAccurateBalanceAlone(t *testing.T) {
	store := newStubReconcileStore()
	merchantID := uuid.New()
	store.merchants[merchantID] = &models.Merchant{
		ID:             merchantID,
		Name:           "Corner Deli",
		CurrentBalance: decimal.RequireFromString("10.00"),
		TotalPaidOut:   decimal.RequireFromString("10.00"),
	}
	store.delivered[merchantID] = []models.Order{deliveredOrder(merchantID, "10.00", 2)}

	job := newReconcileJob(t, store)
	require.NoError(t, job.Run(context.Background()))

	assert.Empty(t, store.updates)
	assert.True(t, store.merchants[merchantID].CurrentBalance.Equal(decimal.RequireFromString("10.00")))
}

func TestBalanceReconcileCountsPendingItemsAsZero(t *testing.T) {
	store := newStubReconcileStore()
	merchantID := uuid.New()
	store.merchants[merchantID] = &models.Merchant{
		ID:             merchantID,
		CurrentBalance: decimal.RequireFromString("20.00"),
	}
	order := deliveredOrder(merchantID, "10.00", 2)
	order.Items[0].Status = enums.OrderItemStatusPending
	store.delivered[merchantID] = []models.Order{order}

	job := newReconcileJob(t, store)
	require.NoError(t, job.Run(context.Background()))

	// no delivered items means the correct balance is zero
	assert.True(t, store.merchants[merchantID].CurrentBalance.IsZero())
}

func TestBalanceReconcilePropagatesListError(t *testing.T) {
	store := newStubReconcileStore()
	store.listErr = errors.New("db down")

	job := newReconcileJob(t, store)
	assert.Error(t, job.Run(context.Background()))
}
