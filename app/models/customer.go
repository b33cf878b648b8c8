package models

// Customer is a loyalty-programme member. Email is optional but unique
// when present; loyalty points default to zero.
type Customer struct {
	CustomerID    uint    `json:"customer_id" gorm:"primaryKey;column:customer_id"`
	FirstName     string  `json:"first_name" gorm:"size:50;not null" validate:"required"`
	LastName      string  `json:"last_name" gorm:"size:50;not null" validate:"required"`
	ContactNumber *string `json:"contact_number" gorm:"size:20"`
	Email         *string `json:"email" gorm:"size:100;uniqueIndex"`
	LoyaltyPoints int     `json:"loyalty_points" gorm:"not null;default:0"`
}

func (Customer) TableName() string { return "customers" }
