package drivers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliveryservices/backend/pkg/db/models"
)

// Repository defines persistence operations for drivers and salary payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateDriver(ctx context.Context, driver *models.Driver) (*models.Driver, error)
	FindDriver(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	FindDriverForUpdate(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	ListDrivers(ctx context.Context, activeOnly bool) ([]models.Driver, error)
	UpdateDriver(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateSalaryPayment(ctx context.Context, payment *models.DriverSalaryPayment) (*models.DriverSalaryPayment, error)
	ListSalaryPaymentsByDriver(ctx context.Context, driverID uuid.UUID) ([]models.DriverSalaryPayment, error)
}
