package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/deliveryservices/backend/pkg/db/models"
	"github.com/deliveryservices/backend/pkg/enums"
	pkgerrors "github.com/deliveryservices/backend/pkg/errors"
	"github.com/deliveryservices/backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// MerchantLedger mutates merchant balances inside the caller's transaction.
type MerchantLedger interface {
	Credit(ctx context.Context, tx *gorm.DB, merchantID uuid.UUID, amount decimal.Decimal) error
	Debit(ctx context.Context, tx *gorm.DB, merchantID uuid.UUID, amount decimal.Decimal) error
}

// DriverLedger mutates driver delivery stats inside the caller's transaction.
type DriverLedger interface {
	CreditDelivery(ctx context.Context, tx *gorm.DB, driverID uuid.UUID) error
	DebitDelivery(ctx context.Context, tx *gorm.DB, driverID uuid.UUID) error
}

// Service defines order lifecycle operations and their ledger side effects.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters OrderFilters) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error)
	DriverSetStatus(ctx context.Context, input DriverSetStatusInput) (*models.Order, error)
	SetItemStatus(ctx context.Context, input SetItemStatusInput) (*models.Order, error)
	AddItem(ctx context.Context, input AddItemInput) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, input UpdateItemInput) (*models.OrderItem, error)
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error
}

type service struct {
	repo      Repository
	tx        txRunner
	merchants MerchantLedger
	drivers   DriverLedger
	metrics   *metrics.LedgerMetrics
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, merchants MerchantLedger, drivers DriverLedger, ledgerMetrics *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if merchants == nil {
		return nil, fmt.Errorf("merchant ledger required")
	}
	if drivers == nil {
		return nil, fmt.Errorf("driver ledger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		merchants: merchants,
		drivers:   drivers,
		metrics:   ledgerMetrics,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if input.DeliveryFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee cannot be negative")
	}
	for _, item := range input.Items {
		if item.ProductName == "" || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item requires a product name, positive quantity and non-negative unit price")
		}
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order := &models.Order{
			CustomerName:    input.CustomerName,
			CustomerPhone:   input.CustomerPhone,
			CustomerAddress: input.CustomerAddress,
			Status:          enums.OrderStatusPending,
			DeliveryFee:     input.DeliveryFee,
			MerchantID:      input.MerchantID,
			DriverID:        input.DriverID,
		}
		var err error
		created, err = repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		for _, in := range input.Items {
			items = append(items, models.OrderItem{
				OrderID:            created.ID,
				ProductName:        in.ProductName,
				ProductSKU:         in.ProductSKU,
				ProductDescription: in.ProductDescription,
				Quantity:           in.Quantity,
				UnitPrice:          in.UnitPrice,
				Status:             enums.OrderItemStatusPending,
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		created.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filters OrderFilters) ([]models.Order, error) {
	list, err := s.repo.ListOrders(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// Update edits order header fields. Reassigning the merchant of a delivered
// order moves the current subtotal from the old merchant to the new one.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.DeliveryFee != nil && input.DeliveryFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee cannot be negative")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		updates := map[string]any{}
		if input.CustomerName != nil {
			updates["customer_name"] = *input.CustomerName
		}
		if input.CustomerPhone != nil {
			updates["customer_phone"] = *input.CustomerPhone
		}
		if input.CustomerAddress != nil {
			updates["customer_address"] = *input.CustomerAddress
		}
		if input.DeliveryFee != nil {
			updates["delivery_fee"] = *input.DeliveryFee
		}
		if input.DriverID != nil {
			updates["driver_id"] = *input.DriverID
		}

		if input.MerchantID != nil && !sameMerchant(order.MerchantID, input.MerchantID) {
			if order.Status == enums.OrderStatusDelivered {
				subTotal := order.SubTotal()
				if order.MerchantID != nil {
					if err := s.merchants.Debit(ctx, tx, *order.MerchantID, subTotal); err != nil {
						return err
					}
				}
				if err := s.merchants.Credit(ctx, tx, *input.MerchantID, subTotal); err != nil {
					return err
				}
			}
			updates["merchant_id"] = *input.MerchantID
		}

		if len(updates) > 0 {
			if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}
		}
		updated, err = repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func sameMerchant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SetStatus is the admin transition path: any target status may be set
// directly, with cascades and ledger effects applied on crossing the
// Delivered boundary.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if err := s.applyStatus(ctx, tx, repo, order, input.Status); err != nil {
			return err
		}
		result, err = repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// driver transitions allowed from each current status
var driverTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:  {enums.OrderStatusPickedUp},
	enums.OrderStatusPickedUp: {enums.OrderStatusDelivered, enums.OrderStatusCancelled},
}

func driverTransitionAllowed(from, to enums.OrderStatus) bool {
	for _, allowed := range driverTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DriverSetStatus is the driver transition path: the order must belong to the
// acting driver and the transition must be on the allow-list.
func (s *service) DriverSetStatus(ctx context.Context, input DriverSetStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.DriverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.DriverID == nil || *order.DriverID != input.DriverID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if !driverTransitionAllowed(order.Status, input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("transition %s -> %s not allowed", order.Status, input.Status))
		}

		if err := s.applyStatus(ctx, tx, repo, order, input.Status); err != nil {
			return err
		}
		result, err = repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyStatus applies one order-level transition with its cascades and ledger
// effects. Callers hold the order row lock.
func (s *service) applyStatus(ctx context.Context, tx *gorm.DB, repo Repository, order *models.Order, newStatus enums.OrderStatus) error {
	previous := order.Status
	if previous == newStatus {
		return nil
	}

	switch newStatus {
	case enums.OrderStatusDelivered:
		now := time.Now().UTC()
		if err := repo.UpdateItemStatusesByOrder(ctx, order.ID, enums.OrderItemStatusDelivered); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade items to delivered")
		}
		for i := range order.Items {
			order.Items[i].Status = enums.OrderItemStatusDelivered
		}
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":       newStatus,
			"delivered_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		// subtotal computed after the cascade, so every item contributes
		if order.MerchantID != nil {
			if err := s.merchants.Credit(ctx, tx, *order.MerchantID, order.SubTotal()); err != nil {
				return err
			}
		}
		if order.DriverID != nil {
			if err := s.drivers.CreditDelivery(ctx, tx, *order.DriverID); err != nil {
				return err
			}
		}

	case enums.OrderStatusCancelled:
		// reversal amount is the delivered subtotal before the cascade wipes it
		reversal := order.SubTotal()
		if err := repo.UpdateItemStatusesByOrder(ctx, order.ID, enums.OrderItemStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade items to cancelled")
		}
		for i := range order.Items {
			order.Items[i].Status = enums.OrderItemStatusCancelled
		}
		updates := map[string]any{"status": newStatus}
		if previous == enums.OrderStatusDelivered {
			updates["delivered_at"] = nil
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if previous == enums.OrderStatusDelivered {
			if err := s.reverseDeliveredCredits(ctx, tx, order, reversal); err != nil {
				return err
			}
		}

	default:
		updates := map[string]any{"status": newStatus}
		if previous == enums.OrderStatusDelivered {
			updates["delivered_at"] = nil
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if previous == enums.OrderStatusDelivered {
			if err := s.reverseDeliveredCredits(ctx, tx, order, order.SubTotal()); err != nil {
				return err
			}
		}
	}

	order.Status = newStatus
	s.metrics.IncTransition(newStatus.String())
	return nil
}

func (s *service) reverseDeliveredCredits(ctx context.Context, tx *gorm.DB, order *models.Order, amount decimal.Decimal) error {
	if order.MerchantID != nil {
		if err := s.merchants.Debit(ctx, tx, *order.MerchantID, amount); err != nil {
			return err
		}
	}
	if order.DriverID != nil {
		if err := s.drivers.DebitDelivery(ctx, tx, *order.DriverID); err != nil {
			return err
		}
	}
	return nil
}

// SetItemStatus edits one item's status and propagates bottom-up: the parent
// order is promoted, demoted or reset when its items become uniform.
func (s *service) SetItemStatus(ctx context.Context, input SetItemStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil || input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid item status %q", input.Status))
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		var item *models.OrderItem
		for i := range order.Items {
			if order.Items[i].ID == input.ItemID {
				item = &order.Items[i]
				break
			}
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}

		previous := item.Status
		if previous != input.Status {
			// single-item delta against the merchant while the order is delivered
			if order.Status == enums.OrderStatusDelivered && order.MerchantID != nil {
				delta := item.Value()
				if input.Status == enums.OrderItemStatusDelivered && previous != enums.OrderItemStatusDelivered {
					if err := s.merchants.Credit(ctx, tx, *order.MerchantID, delta); err != nil {
						return err
					}
				} else if previous == enums.OrderItemStatusDelivered && input.Status != enums.OrderItemStatusDelivered {
					if err := s.merchants.Debit(ctx, tx, *order.MerchantID, delta); err != nil {
						return err
					}
				}
			}

			if err := repo.UpdateItem(ctx, item.ID, map[string]any{"status": input.Status}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item status")
			}
			item.Status = input.Status

			if err := s.propagateItemStatuses(ctx, tx, repo, order); err != nil {
				return err
			}
		}

		result, err = repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// propagateItemStatuses derives the order status from uniform item states.
// Mixed statuses leave the order untouched.
func (s *service) propagateItemStatuses(ctx context.Context, tx *gorm.DB, repo Repository, order *models.Order) error {
	if len(order.Items) == 0 {
		return nil
	}

	allDelivered, allCancelled, allPending := true, true, true
	for _, item := range order.Items {
		switch item.Status {
		case enums.OrderItemStatusDelivered:
			allCancelled, allPending = false, false
		case enums.OrderItemStatusCancelled:
			allDelivered, allPending = false, false
		default:
			allDelivered, allCancelled = false, false
		}
	}

	switch {
	case allDelivered && order.Status != enums.OrderStatusDelivered:
		now := time.Now().UTC()
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":       enums.OrderStatusDelivered,
			"delivered_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote order to delivered")
		}
		if order.MerchantID != nil {
			if err := s.merchants.Credit(ctx, tx, *order.MerchantID, order.SubTotal()); err != nil {
				return err
			}
		}
		if order.DriverID != nil {
			if err := s.drivers.CreditDelivery(ctx, tx, *order.DriverID); err != nil {
				return err
			}
		}
		order.Status = enums.OrderStatusDelivered
		s.metrics.IncTransition(enums.OrderStatusDelivered.String())

	case allCancelled && order.Status != enums.OrderStatusCancelled:
		wasDelivered := order.Status == enums.OrderStatusDelivered
		updates := map[string]any{"status": enums.OrderStatusCancelled}
		if wasDelivered {
			updates["delivered_at"] = nil
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "demote order to cancelled")
		}
		if wasDelivered {
			// per-item debits already ran as the items left Delivered, so the
			// remaining delivered subtotal is what is still outstanding
			if err := s.reverseDeliveredCredits(ctx, tx, order, order.SubTotal()); err != nil {
				return err
			}
		}
		order.Status = enums.OrderStatusCancelled
		s.metrics.IncTransition(enums.OrderStatusCancelled.String())

	case allPending && order.Status != enums.OrderStatusPending:
		wasDelivered := order.Status == enums.OrderStatusDelivered
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":       enums.OrderStatusPending,
			"delivered_at": nil,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset order to pending")
		}
		if wasDelivered {
			if err := s.reverseDeliveredCredits(ctx, tx, order, order.SubTotal()); err != nil {
				return err
			}
		}
		order.Status = enums.OrderStatusPending
		s.metrics.IncTransition(enums.OrderStatusPending.String())
	}

	return nil
}

// AddItem appends a product snapshot line. New items start Pending, so a
// delivered order's balance is untouched until the item itself is delivered.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.OrderItem, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ProductName == "" || input.Quantity <= 0 || input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item requires a product name, positive quantity and non-negative unit price")
	}

	var created *models.OrderItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		item := models.OrderItem{
			OrderID:            order.ID,
			ProductName:        input.ProductName,
			ProductSKU:         input.ProductSKU,
			ProductDescription: input.ProductDescription,
			Quantity:           input.Quantity,
			UnitPrice:          input.UnitPrice,
			Status:             enums.OrderItemStatusPending,
		}
		items := []models.OrderItem{item}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
		}
		created = &items[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateItem edits a line's fields. When the order is delivered and the item
// is delivered, the merchant balance moves by the value difference.
func (s *service) UpdateItem(ctx context.Context, input UpdateItemInput) (*models.OrderItem, error) {
	if input.OrderID == uuid.Nil || input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id required")
	}
	if input.Quantity != nil && *input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	var updated *models.OrderItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		var item *models.OrderItem
		for i := range order.Items {
			if order.Items[i].ID == input.ItemID {
				item = &order.Items[i]
				break
			}
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}

		oldValue := decimal.Zero
		if item.Status == enums.OrderItemStatusDelivered {
			oldValue = item.Value()
		}

		updates := map[string]any{}
		if input.ProductName != nil {
			updates["product_name"] = *input.ProductName
			item.ProductName = *input.ProductName
		}
		if input.ProductSKU != nil {
			updates["product_sku"] = *input.ProductSKU
			item.ProductSKU = input.ProductSKU
		}
		if input.ProductDescription != nil {
			updates["product_description"] = *input.ProductDescription
			item.ProductDescription = input.ProductDescription
		}
		if input.Quantity != nil {
			updates["quantity"] = *input.Quantity
			item.Quantity = *input.Quantity
		}
		if input.UnitPrice != nil {
			updates["unit_price"] = *input.UnitPrice
			item.UnitPrice = *input.UnitPrice
		}
		if len(updates) > 0 {
			if err := repo.UpdateItem(ctx, item.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order item")
			}
		}

		newValue := decimal.Zero
		if item.Status == enums.OrderItemStatusDelivered {
			newValue = item.Value()
		}
		difference := newValue.Sub(oldValue)

		if order.Status == enums.OrderStatusDelivered && order.MerchantID != nil && !difference.IsZero() {
			if err := s.merchants.Credit(ctx, tx, *order.MerchantID, difference); err != nil {
				return err
			}
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveItem deletes a line. When the order is delivered and the item was
// delivered, the merchant balance drops by the item's contribution.
func (s *service) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	if orderID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id and item id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderForUpdate(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		var item *models.OrderItem
		for i := range order.Items {
			if order.Items[i].ID == itemID {
				item = &order.Items[i]
				break
			}
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}

		itemValue := decimal.Zero
		if item.Status == enums.OrderItemStatusDelivered {
			itemValue = item.Value()
		}

		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order item")
		}

		if order.Status == enums.OrderStatusDelivered && order.MerchantID != nil && itemValue.IsPositive() {
			if err := s.merchants.Debit(ctx, tx, *order.MerchantID, itemValue); err != nil {
				return err
			}
		}
		return nil
	})
}
