package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DriverSalaryPayment records a salary settlement and the base/commission
// split at the moment of payment. Immutable once written.
type DriverSalaryPayment struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DriverID             uuid.UUID       `gorm:"column:driver_id;type:uuid;not null"`
	Amount               decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	BaseSalaryPortion    decimal.Decimal `gorm:"column:base_salary_portion;type:numeric(12,2);not null;default:0"`
	CommissionPortion    decimal.Decimal `gorm:"column:commission_portion;type:numeric(12,2);not null;default:0"`
	DeliveriesCount      int             `gorm:"column:deliveries_count;not null;default:0"`
	PaymentDate          time.Time       `gorm:"column:payment_date;not null"`
	PeriodStart          time.Time       `gorm:"column:period_start;not null"`
	PeriodEnd            time.Time       `gorm:"column:period_end;not null"`
	PaymentMethod        *string         `gorm:"column:payment_method"`
	ProcessedBy          *string         `gorm:"column:processed_by"`
	Notes                *string         `gorm:"column:notes"`
	TransactionReference *string         `gorm:"column:transaction_reference"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
}
