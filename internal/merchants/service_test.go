package merchants

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/deliveryservices/backend/pkg/db/models"
	pkgerrors "github.com/deliveryservices/backend/pkg/errors"
)

type stubMerchantsRepo struct {
	merchants map[uuid.UUID]*models.Merchant
	payouts   []models.MerchantPayout
}

func newStubMerchantsRepo(seed ...*models.Merchant) *stubMerchantsRepo {
	repo := &stubMerchantsRepo{merchants: map[uuid.UUID]*models.Merchant{}}
	for _, m := range seed {
		repo.merchants[m.ID] = m
	}
	return repo
}

func (s *stubMerchantsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubMerchantsRepo) CreateMerchant(ctx context.Context, merchant *models.Merchant) (*models.Merchant, error) {
	if merchant.ID == uuid.Nil {
		merchant.ID = uuid.New()
	}
	s.merchants[merchant.ID] = merchant
	return merchant, nil
}

func (s *stubMerchantsRepo) FindMerchant(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	merchant, ok := s.merchants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return merchant, nil
}

func (s *stubMerchantsRepo) FindMerchantForUpdate(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	return s.FindMerchant(ctx, id)
}

func (s *stubMerchantsRepo) ListMerchants(ctx context.Context) ([]models.Merchant, error) {
	list := make([]models.Merchant, 0, len(s.merchants))
	for _, m := range s.merchants {
		list = append(list, *m)
	}
	return list, nil
}

func (s *stubMerchantsRepo) UpdateMerchant(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	merchant, ok := s.merchants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "name":
			merchant.Name = value.(string)
		case "phone_number":
			merchant.PhoneNumber = value.(string)
		case "email":
			merchant.Email = value.(string)
		case "address":
			merchant.Address = value.(string)
		case "current_balance":
			merchant.CurrentBalance = value.(decimal.Decimal)
		case "total_paid_out":
			merchant.TotalPaidOut = value.(decimal.Decimal)
		}
	}
	return nil
}

func (s *stubMerchantsRepo) CreatePayout(ctx context.Context, payout *models.MerchantPayout) (*models.MerchantPayout, error) {
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	s.payouts = append(s.payouts, *payout)
	return payout, nil
}

func (s *stubMerchantsRepo) ListPayoutsByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.MerchantPayout, error) {
	out := []models.MerchantPayout{}
	for _, p := range s.payouts {
		if p.MerchantID == merchantID {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func seedMerchant(balance string) *models.Merchant {
	return &models.Merchant{
		ID:             uuid.New(),
		Name:           "Corner Grocer",
		PhoneNumber:    "555-0100",
		Email:          "owner@cornergrocer.test",
		Address:        "12 Main St",
		CurrentBalance: decimal.RequireFromString(balance),
		TotalPaidOut:   decimal.Zero,
	}
}

func TestCreateMerchantValidation(t *testing.T) {
	svc, err := NewService(newStubMerchantsRepo(), stubTxRunner{}, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateMerchantInput{Name: "No Contact"})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateMerchantStartsWithZeroBalance(t *testing.T) {
	repo := newStubMerchantsRepo()
	svc, err := NewService(repo, stubTxRunner{}, nil)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateMerchantInput{
		Name:        "Corner Grocer",
		PhoneNumber: "555-0100",
		Email:       "owner@cornergrocer.test",
		Address:     "12 Main St",
	})
	require.NoError(t, err)
	assert.True(t, created.CurrentBalance.IsZero())
	assert.True(t, created.TotalPaidOut.IsZero())
}

func TestPayoutHappyPath(t *testing.T) {
	merchant := seedMerchant("100.00")
	repo := newStubMerchantsRepo(merchant)
	svc, err := NewService(repo, stubTxRunner{}, nil)
	require.NoError(t, err)

	notes := "weekly settlement"
	payout, err := svc.Payout(context.Background(), PayoutInput{
		MerchantID: merchant.ID,
		Amount:     decimal.RequireFromString("40.00"),
		Notes:      &notes,
	})
	require.NoError(t, err)

	assert.True(t, merchant.CurrentBalance.Equal(decimal.RequireFromString("60.00")))
	assert.True(t, merchant.TotalPaidOut.Equal(decimal.RequireFromString("40.00")))
	require.NotNil(t, payout)
	assert.Equal(t, merchant.ID, payout.MerchantID)
	assert.True(t, payout.Amount.Equal(decimal.RequireFromString("40.00")))
	require.Len(t, repo.payouts, 1)
}

func TestPayoutFullBalance(t *testing.T) {
	merchant := seedMerchant("75.50")
	repo := newStubMerchantsRepo(merchant)
	svc, err := NewService(repo, stubTxRunner{}, nil)
	require.NoError(t, err)

	_, err = svc.Payout(context.Background(), PayoutInput{
		MerchantID: merchant.ID,
		Amount:     decimal.RequireFromString("75.50"),
	})
	require.NoError(t, err)
	assert.True(t, merchant.CurrentBalance.IsZero())
}

func TestPayoutRejectsZeroBalance(t *testing.T) {
	merchant := seedMerchant("0")
	svc, err := NewService(newStubMerchantsRepo(merchant), stubTxRunner{}, nil)
	require.NoError(t, err)

	_, err = svc.Payout(context.Background(), PayoutInput{
		MerchantID: merchant.ID,
		Amount:     decimal.RequireFromString("10.00"),
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestPayoutRejectsOverdraw(t *testing.T) {
	merchant := seedMerchant("25.00")
	repo := newStubMerchantsRepo(merchant)
	svc, err := NewService(repo, stubTxRunner{}, nil)
	require.NoError(t, err)

	_, err = svc.Payout(context.Background(), PayoutInput{
		MerchantID: merchant.ID,
		Amount:     decimal.RequireFromString("25.01"),
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	// nothing written
	assert.True(t, merchant.CurrentBalance.Equal(decimal.RequireFromString("25.00")))
	assert.Empty(t, repo.payouts)
}

func TestPayoutRejectsNonPositiveAmount(t *testing.T) {
	merchant := seedMerchant("50.00")
	svc, err := NewService(newStubMerchantsRepo(merchant), stubTxRunner{}, nil)
	require.NoError(t, err)

	for _, amount := range []string{"0", "-5.00"} {
		_, err = svc.Payout(context.Background(), PayoutInput{
			MerchantID: merchant.ID,
			Amount:     decimal.RequireFromString(amount),
		})
		var appErr *pkgerrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
}

func TestPayoutMerchantNotFound(t *testing.T) {
	svc, err := NewService(newStubMerchantsRepo(), stubTxRunner{}, nil)
	require.NoError(t, err)

	_, err = svc.Payout(context.Background(), PayoutInput{
		MerchantID: uuid.New(),
		Amount:     decimal.RequireFromString("10.00"),
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestCreditAndDebitAdjustBalance(t *testing.T) {
	merchant := seedMerchant("10.00")
	repo := newStubMerchantsRepo(merchant)
	svc, err := NewService(repo, stubTxRunner{}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Credit(ctx, nil, merchant.ID, decimal.RequireFromString("32.50")))
	assert.True(t, merchant.CurrentBalance.Equal(decimal.RequireFromString("42.50")))

	require.NoError(t, svc.Debit(ctx, nil, merchant.ID, decimal.RequireFromString("50.00")))
	// reversals are unconditional
	assert.True(t, merchant.CurrentBalance.Equal(decimal.RequireFromString("-7.50")))
}

func TestCreditZeroAmountIsNoOp(t *testing.T) {
	merchant := seedMerchant("10.00")
	svc, err := NewService(newStubMerchantsRepo(merchant), stubTxRunner{}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Credit(context.Background(), nil, merchant.ID, decimal.Zero))
	assert.True(t, merchant.CurrentBalance.Equal(decimal.RequireFromString("10.00")))
}

func TestUpdateMerchantContactFields(t *testing.T) {
	merchant := seedMerchant("10.00")
	svc, err := NewService(newStubMerchantsRepo(merchant), stubTxRunner{}, nil)
	require.NoError(t, err)

	name := "New Name"
	updated, err := svc.Update(context.Background(), merchant.ID, UpdateMerchantInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	// balance untouched
	assert.True(t, updated.CurrentBalance.Equal(decimal.RequireFromString("10.00")))
}

func TestListPayoutsRequiresMerchant(t *testing.T) {
	svc, err := NewService(newStubMerchantsRepo(), stubTxRunner{}, nil)
	require.NoError(t, err)

	_, err = svc.ListPayouts(context.Background(), uuid.New())
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
