package services_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cafepos/app/models"
	"cafepos/app/services"
)

var dbSeq atomic.Int64

// newTestDB opens a uniquely named shared in-memory database so every
// connection in gorm's pool sees the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:ordersvc%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.MenuItem{},
		&models.Employee{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedCatalogue(t *testing.T, db *gorm.DB) (espresso, cappuccino models.MenuItem) {
	t.Helper()

	espresso = models.MenuItem{Name: "Espresso", Price: 2.50, IsAvailable: true}
	cappuccino = models.MenuItem{Name: "Cappuccino", Price: 3.80, IsAvailable: true}
	require.NoError(t, db.Create(&espresso).Error)
	require.NoError(t, db.Create(&cappuccino).Error)

	staff := models.Employee{FirstName: "Maya", LastName: "Singh"}
	require.NoError(t, db.Create(&staff).Error)
	return espresso, cappuccino
}

func TestPlaceComputesTotalFromLineSnapshots(t *testing.T) {
	db := newTestDB(t)
	espresso, cappuccino := seedCatalogue(t, db)
	svc := services.NewOrderService(db)

	order, err := svc.Place(context.Background(), services.PlaceOrderInput{
		EmployeeID: 1,
		Items: []services.OrderLine{
			{ItemID: espresso.ItemID, Quantity: 2},
			{ItemID: cappuccino.ItemID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 2*2.50+3.80, order.TotalAmount, 1e-9)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, models.PaymentMethodCash, order.PaymentMethod)
	require.Len(t, order.Items, 2)

	// The committed lines carry the catalogue price at placement time, and
	// the total equals the sum over snapshots, not over live prices.
	var lines []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.OrderID).Order("order_item_id").Find(&lines).Error)
	require.Len(t, lines, 2)
	assert.InDelta(t, 2.50, lines[0].PriceAtOrder, 1e-9)
	assert.InDelta(t, 3.80, lines[1].PriceAtOrder, 1e-9)

	sum := 0.0
	for _, l := range lines {
		sum += l.PriceAtOrder * float64(l.Quantity)
	}
	assert.InDelta(t, order.TotalAmount, sum, 1e-9)
}

func TestPlaceSnapshotSurvivesCatalogueChange(t *testing.T) {
	db := newTestDB(t)
	espresso, _ := seedCatalogue(t, db)
	svc := services.NewOrderService(db)

	first, err := svc.Place(context.Background(), services.PlaceOrderInput{
		EmployeeID: 1,
		Items:      []services.OrderLine{{ItemID: espresso.ItemID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.MenuItem{}).
		Where("item_id = ?", espresso.ItemID).
		Update("price", 9.99).Error)

	var line models.OrderItem
	require.NoError(t, db.First(&line, "order_id = ?", first.OrderID).Error)
	assert.InDelta(t, 2.50, line.PriceAtOrder, 1e-9, "existing order must keep the old price")

	second, err := svc.Place(context.Background(), services.PlaceOrderInput{
		EmployeeID: 1,
		Items:      []services.OrderLine{{ItemID: espresso.ItemID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 9.99, second.TotalAmount, 1e-9, "new order prices from the current catalogue")
}

func TestPlaceUnknownItemRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	espresso, _ := seedCatalogue(t, db)
	svc := services.NewOrderService(db)

	_, err := svc.Place(context.Background(), services.PlaceOrderInput{
		EmployeeID: 1,
		Items: []services.OrderLine{
			{ItemID: espresso.ItemID, Quantity: 1},
			{ItemID: 999, Quantity: 1},
		},
	})
	require.Error(t, err)

	var nf *services.MenuItemNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, uint(999), nf.ID)
	assert.Equal(t, "Menu item with ID 999 not found.", nf.Error())

	var orders, lines int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&lines).Error)
	assert.Zero(t, orders, "no order row may survive a failed placement")
	assert.Zero(t, lines, "no line row may survive a failed placement")
}

func TestPlaceUnknownEmployeeRollsBack(t *testing.T) {
	db := newTestDB(t)
	espresso, _ := seedCatalogue(t, db)
	svc := services.NewOrderService(db)

	_, err := svc.Place(context.Background(), services.PlaceOrderInput{
		EmployeeID: 999,
		Items:      []services.OrderLine{{ItemID: espresso.ItemID, Quantity: 1}},
	})
	require.Error(t, err, "the employee reference is enforced by the store")

	var orders, lines int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
}

func TestPlaceKeepsExplicitPaymentMethod(t *testing.T) {
	db := newTestDB(t)
	espresso, _ := seedCatalogue(t, db)
	svc := services.NewOrderService(db)

	order, err := svc.Place(context.Background(), services.PlaceOrderInput{
		EmployeeID:    1,
		PaymentMethod: "Card",
		Items:         []services.OrderLine{{ItemID: espresso.ItemID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Card", order.PaymentMethod)
}

func TestPlaceWalkInCustomer(t *testing.T) {
	db := newTestDB(t)
	espresso, _ := seedCatalogue(t, db)
	svc := services.NewOrderService(db)

	order, err := svc.Place(context.Background(), services.PlaceOrderInput{
		EmployeeID: 1,
		Items:      []services.OrderLine{{ItemID: espresso.ItemID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Nil(t, order.CustomerID)

	var stored models.Order
	require.NoError(t, db.First(&stored, "order_id = ?", order.OrderID).Error)
	assert.Nil(t, stored.CustomerID)
	assert.InDelta(t, 7.50, stored.TotalAmount, 1e-9)
}
