package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deliveryservices/backend/pkg/enums"
)

// OrderFilters narrows order listings.
type OrderFilters struct {
	Status     *enums.OrderStatus
	MerchantID *uuid.UUID
	DriverID   *uuid.UUID
}

// NewItemInput is one line of a create-order request.
type NewItemInput struct {
	ProductName        string          `json:"product_name" validate:"required"`
	ProductSKU         *string         `json:"product_sku,omitempty"`
	ProductDescription *string         `json:"product_description,omitempty"`
	Quantity           int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
}

// CreateOrderInput captures a new delivery request with its customer snapshot.
type CreateOrderInput struct {
	CustomerName    string          `json:"customer_name" validate:"required"`
	CustomerPhone   *string         `json:"customer_phone,omitempty"`
	CustomerAddress *string         `json:"customer_address,omitempty"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	MerchantID      *uuid.UUID      `json:"merchant_id,omitempty"`
	DriverID        *uuid.UUID      `json:"driver_id,omitempty"`
	Items           []NewItemInput  `json:"items,omitempty"`
}

// UpdateOrderInput carries admin edits. Reassigning the merchant of a
// delivered order moves the current subtotal between merchant balances.
type UpdateOrderInput struct {
	CustomerName    *string          `json:"customer_name,omitempty"`
	CustomerPhone   *string          `json:"customer_phone,omitempty"`
	CustomerAddress *string          `json:"customer_address,omitempty"`
	DeliveryFee     *decimal.Decimal `json:"delivery_fee,omitempty"`
	MerchantID      *uuid.UUID       `json:"merchant_id,omitempty"`
	DriverID        *uuid.UUID       `json:"driver_id,omitempty"`
}

// SetStatusInput is the admin-side transition request (unguarded target).
type SetStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
	Actor   string
}

// DriverSetStatusInput is the driver-side transition request (guarded).
type DriverSetStatusInput struct {
	OrderID  uuid.UUID
	DriverID uuid.UUID
	Status   enums.OrderStatus
}

// SetItemStatusInput edits a single item's status with bottom-up propagation.
type SetItemStatusInput struct {
	OrderID uuid.UUID
	ItemID  uuid.UUID
	Status  enums.OrderItemStatus
}

// AddItemInput appends a product snapshot line to an order.
type AddItemInput struct {
	OrderID            uuid.UUID
	ProductName        string          `json:"product_name" validate:"required"`
	ProductSKU         *string         `json:"product_sku,omitempty"`
	ProductDescription *string         `json:"product_description,omitempty"`
	Quantity           int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
}

// UpdateItemInput edits a line's snapshot fields, quantity or price.
type UpdateItemInput struct {
	OrderID            uuid.UUID
	ItemID             uuid.UUID
	ProductName        *string          `json:"product_name,omitempty"`
	ProductSKU         *string          `json:"product_sku,omitempty"`
	ProductDescription *string          `json:"product_description,omitempty"`
	Quantity           *int             `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
}
