package migrations

import (
	"gorm.io/gorm"

	"cafepos/app/models"
	"cafepos/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_menu_items_table", &CreateMenuItemsTable{})
	migration.Register("20260101000001_create_employees_table", &CreateEmployeesTable{})
	migration.Register("20260101000002_create_customers_table", &CreateCustomersTable{})
	migration.Register("20260101000003_create_orders_tables", &CreateOrdersTables{})
}

// -------- 0001: menu_items --------

type CreateMenuItemsTable struct{}

func (m *CreateMenuItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.MenuItem{})
}

func (m *CreateMenuItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("menu_items")
}

// -------- 0002: employees --------

type CreateEmployeesTable struct{}

func (m *CreateEmployeesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Employee{})
}

func (m *CreateEmployeesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("employees")
}

// -------- 0003: customers --------

type CreateCustomersTable struct{}

func (m *CreateCustomersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Customer{})
}

func (m *CreateCustomersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("customers")
}

// -------- 0004: orders + order_items --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("order_items"); err != nil {
		return err
	}
	return db.Migrator().DropTable("orders")
}
