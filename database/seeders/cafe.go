package seeders

import (
	"gorm.io/gorm"

	"cafepos/app/models"
)

func init() {
	Register("menu_items", SeedMenuItems)
	Register("staff", SeedStaff)
	Register("customers", SeedCustomers)
}

func strPtr(s string) *string { return &s }

// SeedMenuItems inserts a starter menu when the catalogue is empty.
func SeedMenuItems(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.MenuItem{
		{Name: "Espresso", Description: strPtr("Double shot"), Price: 2.50, Category: strPtr("Coffee"), IsAvailable: true},
		{Name: "Cappuccino", Description: strPtr("Espresso with steamed milk foam"), Price: 3.80, Category: strPtr("Coffee"), IsAvailable: true},
		{Name: "Latte", Price: 4.00, Category: strPtr("Coffee"), IsAvailable: true},
		{Name: "Earl Grey", Price: 2.80, Category: strPtr("Tea"), IsAvailable: true},
		{Name: "Croissant", Description: strPtr("Butter croissant, baked daily"), Price: 2.20, Category: strPtr("Pastry"), IsAvailable: true},
		{Name: "Blueberry Muffin", Price: 2.60, Category: strPtr("Pastry"), IsAvailable: true},
		{Name: "Club Sandwich", Price: 6.50, Category: strPtr("Food"), IsAvailable: false},
	}
	return db.Create(&items).Error
}

// SeedStaff inserts a single default employee so orders can be placed
// straight after setup.
func SeedStaff(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Employee{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	barista := models.Employee{
		FirstName: "Maya",
		LastName:  "Singh",
		Position:  strPtr("Barista"),
		Email:     strPtr("maya.singh@example.com"),
		HireDate:  strPtr("2025-03-01"),
	}
	return db.Create(&barista).Error
}

// SeedCustomers inserts one sample loyalty customer.
func SeedCustomers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	regular := models.Customer{
		FirstName:     "Arun",
		LastName:      "Patel",
		Email:         strPtr("arun.patel@example.com"),
		LoyaltyPoints: 40,
	}
	return db.Create(&regular).Error
}
