package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/deliveryservices/backend/internal/merchants"
	"github.com/deliveryservices/backend/internal/orders"
	"github.com/deliveryservices/backend/pkg/db/models"
	"github.com/deliveryservices/backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// BalanceReconcileJobParams configure the merchant balance reconciler.
type BalanceReconcileJobParams struct {
	Logger               *logger.Logger
	DB                   txRunner
	MerchantReader       merchantLister
	MerchantRepoFactory  merchantRepoFactory
	DeliveredRepoFactory deliveredRepoFactory
}

type merchantLister interface {
	ListMerchants(ctx context.Context) ([]models.Merchant, error)
}

type reconcileMerchantRepo interface {
	FindMerchantForUpdate(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	UpdateMerchant(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type deliveredOrderReader interface {
	ListDeliveredByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Order, error)
}

type merchantRepoFactory func(tx *gorm.DB) reconcileMerchantRepo

type deliveredRepoFactory func(tx *gorm.DB) deliveredOrderReader

func defaultMerchantRepo(tx *gorm.DB) reconcileMerchantRepo {
	return merchants.NewRepository(tx)
}

func defaultDeliveredRepo(tx *gorm.DB) deliveredOrderReader {
	return orders.NewRepository(tx)
}

// NewBalanceReconcileJob builds the cron job that recomputes merchant balances
// from delivered orders and corrects any drift left by missed adjustments.
func NewBalanceReconcileJob(params BalanceReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.MerchantReader == nil {
		return nil, fmt.Errorf("merchant reader required")
	}
	merchantFactory := params.MerchantRepoFactory
	if merchantFactory == nil {
		merchantFactory = defaultMerchantRepo
	}
	deliveredFactory := params.DeliveredRepoFactory
	if deliveredFactory == nil {
		deliveredFactory = defaultDeliveredRepo
	}
	return &balanceReconcileJob{
		logg:             params.Logger,
		db:               params.DB,
		merchantReader:   params.MerchantReader,
		merchantFactory:  merchantFactory,
		deliveredFactory: deliveredFactory,
		now:              time.Now,
	}, nil
}

type balanceReconcileJob struct {
	logg             *logger.Logger
	db               txRunner
	merchantReader   merchantLister
	merchantFactory  merchantRepoFactory
	deliveredFactory deliveredRepoFactory
	now              func() time.Time
}

func (j *balanceReconcileJob) Name() string { return "balance-reconcile" }

func (j *balanceReconcileJob) Run(ctx context.Context) error {
	list, err := j.merchantReader.ListMerchants(ctx)
	if err != nil {
		return fmt.Errorf("list merchants: %w", err)
	}

	var errs []error
	corrected := 0
	for _, merchant := range list {
		changed, err := j.reconcileMerchant(ctx, merchant.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("reconcile merchant %s: %w", merchant.ID, err))
			continue
		}
		if changed {
			corrected++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"merchants": len(list),
		"corrected": corrected,
	})
	j.logg.Info(logCtx, "merchant balance reconciliation complete")
	return multierr.Combine(errs...)
}

func (j *balanceReconcileJob) reconcileMerchant(ctx context.Context, merchantID uuid.UUID) (bool, error) {
	changed := false
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.merchantFactory(tx)
		merchant, err := repo.FindMerchantForUpdate(ctx, merchantID)
		if err != nil {
			return err
		}

		delivered, err := j.deliveredFactory(tx).ListDeliveredByMerchant(ctx, merchantID)
		if err != nil {
			return err
		}
		expected := decimal.Zero
		for _, order := range delivered {
			expected = expected.Add(order.SubTotal())
		}
		expected = expected.Sub(merchant.TotalPaidOut)

		if expected.Equal(merchant.CurrentBalance) {
			return nil
		}

		logCtx := j.logg.WithMerchantID(ctx, merchantID.String())
		logCtx = j.logg.WithFields(logCtx, map[string]any{
			"recorded_balance": merchant.CurrentBalance.String(),
			"expected_balance": expected.String(),
			"drift":            expected.Sub(merchant.CurrentBalance).String(),
		})
		j.logg.Warn(logCtx, "merchant balance drift detected; correcting")

		if err := repo.UpdateMerchant(ctx, merchantID, map[string]any{
			"current_balance": expected,
			"updated_at":      j.now().UTC(),
		}); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}
