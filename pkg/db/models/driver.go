package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Driver is the courier fulfilling orders. Earnings accrue per delivered
// order at commission_per_delivery and are settled by salary payments.
type Driver struct {
	ID                     uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FullName               string                `gorm:"column:full_name;not null"`
	PhoneNumber            string                `gorm:"column:phone_number;not null"`
	Email                  string                `gorm:"column:email;not null"`
	Address                *string               `gorm:"column:address"`
	LicenseNumber          *string               `gorm:"column:license_number"`
	VehicleType            *string               `gorm:"column:vehicle_type"`
	VehiclePlateNumber     *string               `gorm:"column:vehicle_plate_number"`
	BaseSalary             decimal.Decimal       `gorm:"column:base_salary;type:numeric(12,2);not null;default:0"`
	CommissionPerDelivery  decimal.Decimal       `gorm:"column:commission_per_delivery;type:numeric(12,2);not null;default:5.00"`
	TotalDeliveries        int                   `gorm:"column:total_deliveries;not null;default:0"`
	CurrentMonthDeliveries int                   `gorm:"column:current_month_deliveries;not null;default:0"`
	TotalEarnings          decimal.Decimal       `gorm:"column:total_earnings;type:numeric(12,2);not null;default:0"`
	CurrentBalance         decimal.Decimal       `gorm:"column:current_balance;type:numeric(12,2);not null;default:0"`
	IsActive               bool                  `gorm:"column:is_active;not null;default:true"`
	JoinedAt               time.Time             `gorm:"column:joined_at;not null"`
	UserID                 *string               `gorm:"column:user_id"`
	Orders                 []Order               `gorm:"foreignKey:DriverID"`
	SalaryPayments         []DriverSalaryPayment `gorm:"foreignKey:DriverID"`
	CreatedAt              time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
