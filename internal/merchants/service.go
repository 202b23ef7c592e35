package merchants

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/deliveryservices/backend/pkg/db/models"
	pkgerrors "github.com/deliveryservices/backend/pkg/errors"
	"github.com/deliveryservices/backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines merchant account and balance operations.
type Service interface {
	Create(ctx context.Context, input CreateMerchantInput) (*models.Merchant, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	List(ctx context.Context) ([]models.Merchant, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMerchantInput) (*models.Merchant, error)
	Credit(ctx context.Context, tx *gorm.DB, merchantID uuid.UUID, amount decimal.Decimal) error
	Debit(ctx context.Context, tx *gorm.DB, merchantID uuid.UUID, amount decimal.Decimal) error
	Payout(ctx context.Context, input PayoutInput) (*models.MerchantPayout, error)
	ListPayouts(ctx context.Context, merchantID uuid.UUID) ([]models.MerchantPayout, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.LedgerMetrics
}

// NewService builds a merchants service with the required dependencies.
func NewService(repo Repository, tx txRunner, ledgerMetrics *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("merchants repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: ledgerMetrics}, nil
}

func (s *service) Create(ctx context.Context, input CreateMerchantInput) (*models.Merchant, error) {
	if input.Name == "" || input.PhoneNumber == "" || input.Email == "" || input.Address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, phone number, email and address are required")
	}

	merchant := &models.Merchant{
		Name:           input.Name,
		PhoneNumber:    input.PhoneNumber,
		Email:          input.Email,
		Address:        input.Address,
		CurrentBalance: decimal.Zero,
		TotalPaidOut:   decimal.Zero,
		UserID:         input.UserID,
	}

	created, err := s.repo.CreateMerchant(ctx, merchant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create merchant")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id required")
	}
	merchant, err := s.repo.FindMerchant(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	return merchant, nil
}

func (s *service) List(ctx context.Context) ([]models.Merchant, error) {
	list, err := s.repo.ListMerchants(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list merchants")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMerchantInput) (*models.Merchant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	var updated *models.Merchant
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		merchant, err := repo.FindMerchantForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
		}
		if err := repo.UpdateMerchant(ctx, merchant.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update merchant")
		}
		updated, err = repo.FindMerchant(ctx, merchant.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload merchant")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Credit increases the merchant balance inside the caller's transaction.
// A zero amount is a no-op so fully-cancelled orders do not touch the row.
func (s *service) Credit(ctx context.Context, tx *gorm.DB, merchantID uuid.UUID, amount decimal.Decimal) error {
	return s.adjustBalance(ctx, tx, merchantID, amount)
}

// Debit decreases the merchant balance inside the caller's transaction.
// Reversals are unconditional, the balance is allowed to go negative.
func (s *service) Debit(ctx context.Context, tx *gorm.DB, merchantID uuid.UUID, amount decimal.Decimal) error {
	return s.adjustBalance(ctx, tx, merchantID, amount.Neg())
}

func (s *service) adjustBalance(ctx context.Context, tx *gorm.DB, merchantID uuid.UUID, delta decimal.Decimal) error {
	if merchantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "merchant id required")
	}
	if delta.IsZero() {
		return nil
	}

	repo := s.repo.WithTx(tx)
	merchant, err := repo.FindMerchantForUpdate(ctx, merchantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock merchant")
	}

	next := merchant.CurrentBalance.Add(delta)
	if err := repo.UpdateMerchant(ctx, merchant.ID, map[string]any{"current_balance": next}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust merchant balance")
	}
	return nil
}

func (s *service) Payout(ctx context.Context, input PayoutInput) (*models.MerchantPayout, error) {
	if input.MerchantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payout amount must be positive")
	}

	var payout *models.MerchantPayout
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		merchant, err := repo.FindMerchantForUpdate(ctx, input.MerchantID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock merchant")
		}

		if !merchant.CurrentBalance.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeConflict, "merchant has no balance to pay out")
		}
		if input.Amount.GreaterThan(merchant.CurrentBalance) {
			return pkgerrors.New(pkgerrors.CodeValidation, "payout amount exceeds current balance").
				WithDetails(map[string]any{
					"current_balance": merchant.CurrentBalance.String(),
					"requested":       input.Amount.String(),
				})
		}

		updates := map[string]any{
			"current_balance": merchant.CurrentBalance.Sub(input.Amount),
			"total_paid_out":  merchant.TotalPaidOut.Add(input.Amount),
		}
		if err := repo.UpdateMerchant(ctx, merchant.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle merchant balance")
		}

		record := &models.MerchantPayout{
			MerchantID:    merchant.ID,
			Amount:        input.Amount,
			PaidAt:        time.Now().UTC(),
			Notes:         input.Notes,
			PaymentMethod: input.PaymentMethod,
			ProcessedBy:   input.ProcessedBy,
		}
		payout, err = repo.CreatePayout(ctx, record)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payout")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSettlement("merchant_payout")
	return payout, nil
}

func (s *service) ListPayouts(ctx context.Context, merchantID uuid.UUID) ([]models.MerchantPayout, error) {
	if merchantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id required")
	}
	if _, err := s.Get(ctx, merchantID); err != nil {
		return nil, err
	}
	payouts, err := s.repo.ListPayoutsByMerchant(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payouts")
	}
	return payouts, nil
}
