// Package routes wires the HTTP surface: three declarative CRUD resources
// plus the order placement endpoint, all JSON under /api.
package routes

import (
	"gorm.io/gorm"

	"cafepos/app/controllers"
	"cafepos/app/models"
	"cafepos/app/services"
	"cafepos/config"
	"cafepos/pkg/crud"
	"cafepos/pkg/router"
)

// RegisterAPI mounts every endpoint onto r, backed by db.
func RegisterAPI(r *router.Router, db *gorm.DB) {
	menuItems := crud.NewResource[models.MenuItem](db, crud.Descriptor{
		Singular:    "Menu item",
		Plural:      "menu items",
		IDKey:       "item_id",
		UniqueField: "name",
		RequiredMsg: "Item name and price are required.",
		CacheKey:    "menu_items:all",
		CacheTTL:    config.MenuCacheTTL(),
	})

	employees := crud.NewResource[models.Employee](db, crud.Descriptor{
		Singular:    "Employee",
		Plural:      "employees",
		IDKey:       "employee_id",
		UniqueField: "email",
		RequiredMsg: "First name and last name are required for an employee.",
	})

	customers := crud.NewResource[models.Customer](db, crud.Descriptor{
		Singular:    "Customer",
		Plural:      "customers",
		IDKey:       "customer_id",
		UniqueField: "email",
		RequiredMsg: "First name and last name are required for a customer.",
	})

	orders := controllers.NewOrderController(services.NewOrderService(db))

	api := r.Group("/api")

	api.Get("/menu_items", "menu_items.index", menuItems.List)
	api.Get("/menu_items/{id}", "menu_items.show", menuItems.Get)
	api.Post("/menu_items", "menu_items.store", menuItems.Create)
	api.Put("/menu_items/{id}", "menu_items.update", menuItems.Update)
	api.Delete("/menu_items/{id}", "menu_items.destroy", menuItems.Delete)

	api.Get("/employees", "employees.index", employees.List)
	api.Get("/employees/{id}", "employees.show", employees.Get)
	api.Post("/employees", "employees.store", employees.Create)
	api.Put("/employees/{id}", "employees.update", employees.Update)
	api.Delete("/employees/{id}", "employees.destroy", employees.Delete)

	api.Get("/customers", "customers.index", customers.List)
	api.Get("/customers/{id}", "customers.show", customers.Get)
	api.Post("/customers", "customers.store", customers.Create)
	api.Put("/customers/{id}", "customers.update", customers.Update)
	api.Delete("/customers/{id}", "customers.destroy", customers.Delete)

	api.Post("/orders", "orders.store", orders.Store)
}
