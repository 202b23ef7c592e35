package drivers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDriverInput captures the fields required to onboard a driver.
type CreateDriverInput struct {
	FullName              string           `json:"full_name" validate:"required"`
	PhoneNumber           string           `json:"phone_number" validate:"required"`
	Email                 string           `json:"email" validate:"required,email"`
	Address               *string          `json:"address,omitempty"`
	LicenseNumber         *string          `json:"license_number,omitempty"`
	VehicleType           *string          `json:"vehicle_type,omitempty"`
	VehiclePlateNumber    *string          `json:"vehicle_plate_number,omitempty"`
	BaseSalary            decimal.Decimal  `json:"base_salary"`
	CommissionPerDelivery *decimal.Decimal `json:"commission_per_delivery,omitempty"`
	UserID                *string          `json:"user_id,omitempty"`
}

// UpdateDriverInput carries optional profile updates. Counters, earnings and
// balance are never writable through this path.
type UpdateDriverInput struct {
	FullName              *string          `json:"full_name,omitempty"`
	PhoneNumber           *string          `json:"phone_number,omitempty"`
	Email                 *string          `json:"email,omitempty" validate:"omitempty,email"`
	Address               *string          `json:"address,omitempty"`
	LicenseNumber         *string          `json:"license_number,omitempty"`
	VehicleType           *string          `json:"vehicle_type,omitempty"`
	VehiclePlateNumber    *string          `json:"vehicle_plate_number,omitempty"`
	BaseSalary            *decimal.Decimal `json:"base_salary,omitempty"`
	CommissionPerDelivery *decimal.Decimal `json:"commission_per_delivery,omitempty"`
}

// PaySalaryInput captures a salary settlement request for a driver.
type PaySalaryInput struct {
	DriverID             uuid.UUID       `json:"driver_id"`
	Amount               decimal.Decimal `json:"amount"`
	PaymentMethod        *string         `json:"payment_method,omitempty"`
	ProcessedBy          *string         `json:"processed_by,omitempty"`
	Notes                *string         `json:"notes,omitempty"`
	TransactionReference *string         `json:"transaction_reference,omitempty"`
}
