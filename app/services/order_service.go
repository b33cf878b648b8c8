// Package services holds the operations with real business rules. Today that
// is a single one: order placement, the only multi-statement write path in
// the system.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cafepos/app/models"
	"cafepos/pkg/metrics"
)

// MenuItemNotFoundError reports an order line referencing an item id that
// resolved to no catalogue row. It aborts (and rolls back) the placement.
type MenuItemNotFoundError struct {
	ID uint
}

func (e *MenuItemNotFoundError) Error() string {
	return fmt.Sprintf("Menu item with ID %d not found.", e.ID)
}

// OrderLine is one requested {item, quantity} pair.
type OrderLine struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// PlaceOrderInput is the validated shape the controller hands over. The
// controller has already rejected a missing employee reference and an empty
// or malformed item list before any store interaction happens.
type PlaceOrderInput struct {
	CustomerID    *uint       `json:"customer_id"`
	EmployeeID    uint        `json:"employee_id"`
	Items         []OrderLine `json:"items"`
	PaymentMethod string      `json:"payment_method"`
}

// OrderService coordinates the order-placement transaction.
type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

// Place prices the requested lines from the current catalogue, then persists
// the order row and its lines in a single transaction. Either every row is
// committed or none are: gorm.Transaction rolls back on any returned error
// (or panic) and releases the connection on every exit path, so a partial
// order is never visible to any other reader.
//
// Each line's price is resolved exactly once, inside the transaction; the
// same snapshot prices both the running total and the line's price_at_order,
// so total_amount always equals the sum of price_at_order * quantity over
// the committed lines.
func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := 0.0
		lines := make([]models.OrderItem, 0, len(in.Items))

		for _, line := range in.Items {
			var item models.MenuItem
			err := tx.First(&item, "item_id = ?", line.ItemID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &MenuItemNotFoundError{ID: line.ItemID}
			}
			if err != nil {
				return fmt.Errorf("price lookup for item %d: %w", line.ItemID, err)
			}

			total += item.Price * float64(line.Quantity)
			lines = append(lines, models.OrderItem{
				ItemID:       line.ItemID,
				Quantity:     line.Quantity,
				PriceAtOrder: item.Price,
			})
		}

		payment := in.PaymentMethod
		if payment == "" {
			payment = models.PaymentMethodCash
		}

		order = models.Order{
			CustomerID:    in.CustomerID,
			EmployeeID:    in.EmployeeID,
			PlacedAt:      s.now(),
			TotalAmount:   total,
			Status:        models.OrderStatusCompleted,
			PaymentMethod: payment,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range lines {
			lines[i].OrderID = order.OrderID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return fmt.Errorf("insert order item %d: %w", lines[i].ItemID, err)
			}
		}
		order.Items = lines

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveOrder(order.TotalAmount)
	return &order, nil
}
