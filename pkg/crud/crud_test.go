package crud_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cafepos/app/models"
	"cafepos/pkg/crud"
	"cafepos/pkg/router"
)

var dbSeq atomic.Int64

// newAPI builds a router with the menu item and customer resources mounted
// the same way the real route table mounts them.
func newAPI(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()

	dsn := fmt.Sprintf("file:crud%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MenuItem{}, &models.Customer{}))

	menu := crud.NewResource[models.MenuItem](db, crud.Descriptor{
		Singular:    "Menu item",
		Plural:      "menu items",
		IDKey:       "item_id",
		UniqueField: "name",
		RequiredMsg: "Item name and price are required.",
		CacheKey:    "menu_items:all",
	})
	customers := crud.NewResource[models.Customer](db, crud.Descriptor{
		Singular:    "Customer",
		Plural:      "customers",
		IDKey:       "customer_id",
		UniqueField: "email",
		RequiredMsg: "First name and last name are required for a customer.",
	})

	r := router.New()
	api := r.Group("/api")
	api.Get("/menu_items", "menu_items.index", menu.List)
	api.Get("/menu_items/{id}", "menu_items.show", menu.Get)
	api.Post("/menu_items", "menu_items.store", menu.Create)
	api.Put("/menu_items/{id}", "menu_items.update", menu.Update)
	api.Delete("/menu_items/{id}", "menu_items.destroy", menu.Delete)
	api.Post("/customers", "customers.store", customers.Create)

	return db, r.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestCreateEchoesGeneratedID(t *testing.T) {
	_, h := newAPI(t)

	rec := do(t, h, http.MethodPost, "/api/menu_items", `{"item_name":"Espresso","price":2.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := parse(t, rec)
	assert.Equal(t, "Menu item added successfully!", body["message"])
	assert.Equal(t, float64(1), body["item_id"])
}

func TestCreateIgnoresClientSuppliedID(t *testing.T) {
	db, h := newAPI(t)

	rec := do(t, h, http.MethodPost, "/api/menu_items", `{"item_id":42,"item_name":"Flat White","price":4.0}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.MenuItem
	require.NoError(t, db.First(&item).Error)
	assert.EqualValues(t, 1, item.ItemID)
}

func TestCreateMissingFields(t *testing.T) {
	_, h := newAPI(t)

	cases := []string{
		`{"item_name":"Espresso"}`,
		`{"price":2.5}`,
		`{"item_name":"Espresso","price":0}`,
		`{}`,
	}
	for _, body := range cases {
		rec := do(t, h, http.MethodPost, "/api/menu_items", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		assert.Equal(t, "Item name and price are required.", parse(t, rec)["message"], "body: %s", body)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	_, h := newAPI(t)

	rec := do(t, h, http.MethodPost, "/api/menu_items", `{"item_name":"Espresso","price":2.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/menu_items", `{"item_name":"Espresso","price":3.0}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Menu item with this name already exists.", parse(t, rec)["message"])
}

func TestListAlwaysReturnsArray(t *testing.T) {
	_, h := newAPI(t)

	rec := do(t, h, http.MethodGet, "/api/menu_items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	do(t, h, http.MethodPost, "/api/menu_items", `{"item_name":"Mocha","price":4.2}`)

	var items []models.MenuItem
	rec = do(t, h, http.MethodGet, "/api/menu_items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Mocha", items[0].Name)

	// Reads have no side effects: a second identical request returns the
	// same rows.
	again := do(t, h, http.MethodGet, "/api/menu_items", "")
	assert.JSONEq(t, rec.Body.String(), again.Body.String())
}

func TestGetByID(t *testing.T) {
	_, h := newAPI(t)
	do(t, h, http.MethodPost, "/api/menu_items", `{"item_name":"Espresso","price":2.5}`)

	rec := do(t, h, http.MethodGet, "/api/menu_items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "Espresso", item.Name)

	for _, path := range []string{"/api/menu_items/99", "/api/menu_items/abc"} {
		rec = do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "path: %s", path)
		assert.Equal(t, "Menu item not found.", parse(t, rec)["message"])
	}
}

func TestUpdateReplacesWholeRow(t *testing.T) {
	db, h := newAPI(t)
	do(t, h, http.MethodPost, "/api/menu_items", `{"item_name":"Espresso","price":2.5,"description":"single shot","category":"coffee"}`)

	rec := do(t, h, http.MethodPut, "/api/menu_items/1", `{"item_name":"Doppio","price":3.0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Menu item updated successfully!", parse(t, rec)["message"])

	var item models.MenuItem
	require.NoError(t, db.First(&item, "item_id = ?", 1).Error)
	assert.Equal(t, "Doppio", item.Name)
	assert.InDelta(t, 3.0, item.Price, 1e-9)
	assert.Nil(t, item.Description, "fields absent from the request are cleared")
	assert.Nil(t, item.Category)
}

func TestUpdateUnknownID(t *testing.T) {
	_, h := newAPI(t)

	rec := do(t, h, http.MethodPut, "/api/menu_items/7", `{"item_name":"Ghost","price":1.0}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Menu item not found.", parse(t, rec)["message"])
}

func TestUpdateValidatesLikeCreate(t *testing.T) {
	_, h := newAPI(t)
	do(t, h, http.MethodPost, "/api/menu_items", `{"item_name":"Espresso","price":2.5}`)

	rec := do(t, h, http.MethodPut, "/api/menu_items/1", `{"item_name":"Espresso"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Item name and price are required.", parse(t, rec)["message"])
}

func TestUpdateValidatesBeforeLookup(t *testing.T) {
	_, h := newAPI(t)

	// A bad payload is a 400 even when the id does not exist; the payload
	// is judged before the store is consulted.
	rec := do(t, h, http.MethodPut, "/api/menu_items/999", `{"item_name":"Ghost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Item name and price are required.", parse(t, rec)["message"])
}

func TestDeleteThenGone(t *testing.T) {
	_, h := newAPI(t)
	do(t, h, http.MethodPost, "/api/menu_items", `{"item_name":"Espresso","price":2.5}`)

	rec := do(t, h, http.MethodDelete, "/api/menu_items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Menu item deleted successfully!", parse(t, rec)["message"])

	rec = do(t, h, http.MethodDelete, "/api/menu_items/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/menu_items/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerRequiresBothNames(t *testing.T) {
	_, h := newAPI(t)

	rec := do(t, h, http.MethodPost, "/api/customers", `{"first_name":"Arun"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "First name and last name are required for a customer.", parse(t, rec)["message"])
}

func TestCustomerOnlyNamesAreJudged(t *testing.T) {
	_, h := newAPI(t)

	// Email format is not checked; only the two names are required.
	rec := do(t, h, http.MethodPost, "/api/customers", `{"first_name":"Bob","last_name":"K","email":"bob@localhost"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Customer added successfully!", parse(t, rec)["message"])
}
