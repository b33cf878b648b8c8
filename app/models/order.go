package models

import "time"

// Order statuses and payment methods. There is no order state machine:
// an order is written once with StatusCompleted and never updated.
const (
	OrderStatusCompleted = "Completed"

	PaymentMethodCash = "Cash"
)

// Order is the parent record of a placed order. TotalAmount is computed once
// at placement from the line snapshots and is never recomputed; the row is
// never updated or deleted. An order and its lines are written in one
// transaction, so either all of them exist or none do.
type Order struct {
	OrderID       uint        `json:"order_id" gorm:"primaryKey;column:order_id"`
	CustomerID    *uint       `json:"customer_id" gorm:"index"`
	EmployeeID    uint        `json:"employee_id" gorm:"not null;index"`
	PlacedAt      time.Time   `json:"placed_at" gorm:"not null"`
	TotalAmount   float64     `json:"total_amount" gorm:"not null"`
	Status        string      `json:"status" gorm:"size:20;not null"`
	PaymentMethod string      `json:"payment_method" gorm:"size:20;not null"`
	Items         []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;references:OrderID"`

	// Declared so the store enforces the references: an order citing a
	// nonexistent employee or customer aborts the insert.
	Customer *Customer `json:"-" gorm:"belongsTo;foreignKey:CustomerID;references:CustomerID"`
	Employee *Employee `json:"-" gorm:"belongsTo;foreignKey:EmployeeID;references:EmployeeID"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line of an order. PriceAtOrder is the menu item's price at
// the moment of placement, deliberately decoupled from the live MenuItem
// price so historical orders stay immutable when the catalogue changes.
type OrderItem struct {
	OrderItemID  uint    `json:"order_item_id" gorm:"primaryKey;column:order_item_id"`
	OrderID      uint    `json:"order_id" gorm:"not null;index"`
	ItemID       uint    `json:"item_id" gorm:"column:item_id;not null"`
	Quantity     int     `json:"quantity" gorm:"not null;check:quantity > 0"`
	PriceAtOrder float64 `json:"price_at_order" gorm:"column:price_at_order;not null"`

	MenuItem *MenuItem `json:"-" gorm:"belongsTo;foreignKey:ItemID;references:ItemID"`
}

func (OrderItem) TableName() string { return "order_items" }
