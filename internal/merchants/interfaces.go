package merchants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliveryservices/backend/pkg/db/models"
)

// Repository defines persistence operations for merchants and their payouts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMerchant(ctx context.Context, merchant *models.Merchant) (*models.Merchant, error)
	FindMerchant(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	FindMerchantForUpdate(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	ListMerchants(ctx context.Context) ([]models.Merchant, error)
	UpdateMerchant(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreatePayout(ctx context.Context, payout *models.MerchantPayout) (*models.MerchantPayout, error)
	ListPayoutsByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.MerchantPayout, error)
}
