package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MerchantPayout records a settlement paid to a merchant. Payouts are created
// by the settlement operation and never edited afterwards.
type MerchantPayout struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID    uuid.UUID       `gorm:"column:merchant_id;type:uuid;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	PaidAt        time.Time       `gorm:"column:paid_at;not null"`
	Notes         *string         `gorm:"column:notes"`
	PaymentMethod *string         `gorm:"column:payment_method"`
	ProcessedBy   *string         `gorm:"column:processed_by"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
