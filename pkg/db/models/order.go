package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deliveryservices/backend/pkg/enums"
)

// Order represents a customer delivery request. Customers are not permanent,
// so each order carries its own customer snapshot.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerPhone   *string           `gorm:"column:customer_phone"`
	CustomerAddress *string           `gorm:"column:customer_address"`
	Status          enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	DeliveryFee     decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	MerchantID      *uuid.UUID        `gorm:"column:merchant_id;type:uuid"`
	DriverID        *uuid.UUID        `gorm:"column:driver_id;type:uuid"`
	Merchant        *Merchant         `gorm:"foreignKey:MerchantID"`
	Driver          *Driver           `gorm:"foreignKey:DriverID"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveredAt     *time.Time        `gorm:"column:delivered_at"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// SubTotal is derived from delivered items only and is never stored.
func (o *Order) SubTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		if item.Status != enums.OrderItemStatusDelivered {
			continue
		}
		sum = sum.Add(item.Value())
	}
	return sum
}

// Total is the delivered-item subtotal plus the delivery fee.
func (o *Order) Total() decimal.Decimal {
	return o.SubTotal().Add(o.DeliveryFee)
}

// MerchantAmount is the portion of the order owed to the merchant.
func (o *Order) MerchantAmount() decimal.Decimal {
	return o.SubTotal()
}
