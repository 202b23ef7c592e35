package drivers

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

var (
	monthsPerYear     = decimal.NewFromInt(12)
	defaultCommission = decimal.RequireFromString("5.00")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines driver account, earnings and settlement operations.
type Service interface {
	Create(ctx context.Context, input CreateDriverInput) (*models.Driver, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	List(ctx context.Context, activeOnly bool) ([]models.Driver, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDriverInput) (*models.Driver, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	CreditDelivery(ctx context.Context, tx *gorm.DB, driverID uuid.UUID) error
	DebitDelivery(ctx context.Context, tx *gorm.DB, driverID uuid.UUID) error
	PaySalary(ctx context.Context, input PaySalaryInput) (*models.DriverSalaryPayment, error)
	ListSalaryPayments(ctx context.Context, driverID uuid.UUID) ([]models.DriverSalaryPayment, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.LedgerMetrics
}

// NewService builds a drivers service with the required dependencies.
func NewService(repo Repository, tx txRunner, ledgerMetrics *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("drivers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: ledgerMetrics}, nil
}

func (s *service) Create(ctx context.Context, input CreateDriverInput) (*models.Driver, error) {
	if input.FullName == "" || input.PhoneNumber == "" || input.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name, phone number and email are required")
	}
	if input.BaseSalary.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base salary cannot be negative")
	}

	commission := defaultCommission
	if input.CommissionPerDelivery != nil {
		if input.CommissionPerDelivery.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission per delivery cannot be negative")
		}
		commission = *input.CommissionPerDelivery
	}

	driver := &models.Driver{
		FullName:              input.FullName,
		PhoneNumber:           input.PhoneNumber,
		Email:                 input.Email,
		Address:               input.Address,
		LicenseNumber:         input.LicenseNumber,
		VehicleType:           input.VehicleType,
		VehiclePlateNumber:    input.VehiclePlateNumber,
		BaseSalary:            input.BaseSalary,
		CommissionPerDelivery: commission,
		TotalEarnings:         decimal.Zero,
		CurrentBalance:        decimal.Zero,
		IsActive:              true,
		JoinedAt:              time.Now().UTC(),
		UserID:                input.UserID,
	}

	created, err := s.repo.CreateDriver(ctx, driver)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create driver")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	driver, err := s.repo.FindDriver(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
	}
	return driver, nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Driver, error) {
	list, err := s.repo.ListDrivers(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list drivers")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateDriverInput) (*models.Driver, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}

	updates := map[string]any{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
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
	if input.LicenseNumber != nil {
		updates["license_number"] = *input.LicenseNumber
	}
	if input.VehicleType != nil {
		updates["vehicle_type"] = *input.VehicleType
	}
	if input.VehiclePlateNumber != nil {
		updates["vehicle_plate_number"] = *input.VehiclePlateNumber
	}
	if input.BaseSalary != nil {
		if input.BaseSalary.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base salary cannot be negative")
		}
		updates["base_salary"] = *input.BaseSalary
	}
	if input.CommissionPerDelivery != nil {
		if input.CommissionPerDelivery.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission per delivery cannot be negative")
		}
		updates["commission_per_delivery"] = *input.CommissionPerDelivery
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	var updated *models.Driver
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		driver, err := repo.FindDriverForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
		}
		if err := repo.UpdateDriver(ctx, driver.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update driver")
		}
		updated, err = repo.FindDriver(ctx, driver.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload driver")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ToggleActive(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}

	var updated *models.Driver
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		driver, err := repo.FindDriverForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
		}
		if err := repo.UpdateDriver(ctx, driver.ID, map[string]any{"is_active": !driver.IsActive}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle driver")
		}
		updated, err = repo.FindDriver(ctx, driver.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload driver")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreditDelivery accrues one delivered order inside the caller's transaction:
// both delivery counters advance and the balance grows by the commission.
func (s *service) CreditDelivery(ctx context.Context, tx *gorm.DB, driverID uuid.UUID) error {
	if driverID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}

	repo := s.repo.WithTx(tx)
	driver, err := repo.FindDriverForUpdate(ctx, driverID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock driver")
	}

	updates := map[string]any{
		"total_deliveries":         driver.TotalDeliveries + 1,
		"current_month_deliveries": driver.CurrentMonthDeliveries + 1,
		"current_balance":          driver.CurrentBalance.Add(driver.CommissionPerDelivery),
	}
	if err := repo.UpdateDriver(ctx, driver.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit driver delivery")
	}
	return nil
}

// DebitDelivery reverses one delivery accrual. Counters never go below zero
// but the balance debit is unconditional, matching the credit side exactly
// only while the counters are still positive.
func (s *service) DebitDelivery(ctx context.Context, tx *gorm.DB, driverID uuid.UUID) error {
	if driverID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}

	repo := s.repo.WithTx(tx)
	driver, err := repo.FindDriverForUpdate(ctx, driverID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock driver")
	}

	total := driver.TotalDeliveries
	if total > 0 {
		total--
	}
	monthly := driver.CurrentMonthDeliveries
	if monthly > 0 {
		monthly--
	}

	updates := map[string]any{
		"total_deliveries":         total,
		"current_month_deliveries": monthly,
		"current_balance":          driver.CurrentBalance.Sub(driver.CommissionPerDelivery),
	}
	if err := repo.UpdateDriver(ctx, driver.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit driver delivery")
	}
	return nil
}

func (s *service) PaySalary(ctx context.Context, input PaySalaryInput) (*models.DriverSalaryPayment, error) {
	if input.DriverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary amount must be positive")
	}

	var payment *models.DriverSalaryPayment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		driver, err := repo.FindDriverForUpdate(ctx, input.DriverID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock driver")
		}

		if !driver.CurrentBalance.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeConflict, "driver has no balance to settle")
		}
		if input.Amount.GreaterThan(driver.CurrentBalance) {
			return pkgerrors.New(pkgerrors.CodeValidation, "salary amount exceeds current balance").
				WithDetails(map[string]any{
					"current_balance": driver.CurrentBalance.String(),
					"requested":       input.Amount.String(),
				})
		}

		now := time.Now().UTC()
		periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

		record := &models.DriverSalaryPayment{
			DriverID:             driver.ID,
			Amount:               input.Amount,
			BaseSalaryPortion:    driver.BaseSalary.Div(monthsPerYear).Round(2),
			CommissionPortion:    driver.CommissionPerDelivery.Mul(decimal.NewFromInt(int64(driver.CurrentMonthDeliveries))),
			DeliveriesCount:      driver.CurrentMonthDeliveries,
			PaymentDate:          now,
			PeriodStart:          periodStart,
			PeriodEnd:            now,
			PaymentMethod:        input.PaymentMethod,
			ProcessedBy:          input.ProcessedBy,
			Notes:                input.Notes,
			TransactionReference: input.TransactionReference,
		}

		updates := map[string]any{
			"current_month_deliveries": 0,
			"current_balance":          driver.CurrentBalance.Sub(input.Amount),
			"total_earnings":           driver.TotalEarnings.Add(input.Amount),
		}
		if err := repo.UpdateDriver(ctx, driver.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle driver balance")
		}

		payment, err = repo.CreateSalaryPayment(ctx, record)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record salary payment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSettlement("driver_salary")
	return payment, nil
}

func (s *service) ListSalaryPayments(ctx context.Context, driverID uuid.UUID) ([]models.DriverSalaryPayment, error) {
	if driverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	if _, err := s.Get(ctx, driverID); err != nil {
		return nil, err
	}
	payments, err := s.repo.ListSalaryPaymentsByDriver(ctx, driverID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list salary payments")
	}
	return payments, nil
}
