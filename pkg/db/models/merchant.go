package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Merchant is the seller whose products are fulfilled by orders. The platform
// owes the merchant current_balance; total_paid_out is historical.
type Merchant struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string           `gorm:"column:name;not null"`
	PhoneNumber    string           `gorm:"column:phone_number;not null"`
	Email          string           `gorm:"column:email;not null"`
	Address        string           `gorm:"column:address;not null"`
	CurrentBalance decimal.Decimal  `gorm:"column:current_balance;type:numeric(12,2);not null;default:0"`
	TotalPaidOut   decimal.Decimal  `gorm:"column:total_paid_out;type:numeric(12,2);not null;default:0"`
	UserID         *string          `gorm:"column:user_id"`
	Orders         []Order          `gorm:"foreignKey:MerchantID"`
	Payouts        []MerchantPayout `gorm:"foreignKey:MerchantID"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
