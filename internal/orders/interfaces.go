package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliveryservices/backend/pkg/db/models"
	"github.com/deliveryservices/backend/pkg/enums"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filters OrderFilters) ([]models.Order, error)
	ListDeliveredByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateItemStatusesByOrder(ctx context.Context, orderID uuid.UUID, status enums.OrderItemStatus) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}
