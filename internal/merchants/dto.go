package merchants

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateMerchantInput captures the fields required to onboard a merchant.
type CreateMerchantInput struct {
	Name        string  `json:"name" validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Address     string  `json:"address" validate:"required"`
	UserID      *string `json:"user_id,omitempty"`
}

// UpdateMerchantInput carries optional contact updates. Balance fields are
// never writable through this path.
type UpdateMerchantInput struct {
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty"`
}

// PayoutInput captures a settlement request against a merchant balance.
type PayoutInput struct {
	MerchantID    uuid.UUID       `json:"merchant_id"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         *string         `json:"notes,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	ProcessedBy   *string         `json:"processed_by,omitempty"`
}
