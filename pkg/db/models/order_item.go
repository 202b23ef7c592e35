package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deliveryservices/backend/pkg/enums"
)

// OrderItem captures a product snapshot within an order. Products are not
// permanent, so the name/SKU/description are copied at add-time.
type OrderItem struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID            uuid.UUID             `gorm:"column:order_id;type:uuid;not null"`
	ProductName        string                `gorm:"column:product_name;not null"`
	ProductSKU         *string               `gorm:"column:product_sku"`
	ProductDescription *string               `gorm:"column:product_description"`
	Quantity           int                   `gorm:"column:quantity;not null"`
	UnitPrice          decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Status             enums.OrderItemStatus `gorm:"column:status;type:order_item_status;not null;default:'pending'"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// Value is the line contribution, quantity times unit price.
func (i *OrderItem) Value() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
