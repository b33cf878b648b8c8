// Package crud implements the uniform REST lifecycle shared by the simple
// resources (menu items, employees, customers): list-all, get-by-id, create,
// update-by-id, delete-by-id.
//
// One generic Resource[M] serves all of them; per-resource behaviour is
// declared in a Descriptor (wording, generated-id key, unique field, optional
// list cache) rather than duplicated in per-resource handlers:
//
//	menu := crud.NewResource[models.MenuItem](db, crud.Descriptor{
//	    Singular:    "Menu item",
//	    Plural:      "menu items",
//	    IDKey:       "item_id",
//	    UniqueField: "name",
//	    RequiredMsg: "Item name and price are required.",
//	})
package crud

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"cafepos/pkg/bind"
	"cafepos/pkg/cache"
	"cafepos/pkg/logger"
	"cafepos/pkg/response"
)

// Descriptor declares everything resource-specific about one CRUD surface.
type Descriptor struct {
	Singular    string // "Menu item": used in client-facing messages
	Plural      string // "menu items"
	IDKey       string // JSON key carrying the generated id, e.g. "item_id"
	UniqueField string // field under a unique constraint: "name", "email"
	RequiredMsg string // exact 400 message when required fields are missing

	// When CacheKey is set, List serves from cache and every write
	// invalidates it.
	CacheKey string
	CacheTTL time.Duration
}

// ConflictError reports a violated unique constraint, carrying the field
// explicitly so no caller ever inspects fault message text.
type ConflictError struct {
	Resource string
	Field    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists.", e.Resource, e.Field)
}

// NotFoundError reports an id that resolved to no row.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found.", e.Resource)
}

// Resource is the generic CRUD handler set for model M.
type Resource[M any] struct {
	db       *gorm.DB
	d        Descriptor
	pkIndex  int
	pkColumn string
}

// NewResource builds the handler set for M. M's primary key is located by its
// gorm `primaryKey` tag; a model without one is a programming error.
func NewResource[M any](db *gorm.DB, d Descriptor) *Resource[M] {
	idx, col := primaryKey[M]()
	if idx < 0 {
		panic(fmt.Sprintf("crud: model %T has no gorm primaryKey field", *new(M)))
	}
	return &Resource[M]{db: db, d: d, pkIndex: idx, pkColumn: col}
}

// List responds with every row. Side-effect free: repeated calls return
// identical results absent intervening writes.
func (rs *Resource[M]) List(w http.ResponseWriter, r *http.Request) {
	var items []M

	// A cached null (nil after unmarshal) counts as a miss so the empty
	// row-set is always the JSON array.
	if rs.d.CacheKey != "" && cache.Get(rs.d.CacheKey, &items) && items != nil {
		response.JSON(w, items)
		return
	}

	if err := rs.db.WithContext(r.Context()).Find(&items).Error; err != nil {
		logger.WithCtx(r.Context()).Error("list failed", "resource", rs.d.Plural, "error", err)
		response.ErrorWith(w, http.StatusInternalServerError, "Error fetching "+rs.d.Plural, err)
		return
	}

	// Always an array, even when the table is empty. Normalized before the
	// cache write so a hit replays the same body a fresh read produces.
	if items == nil {
		items = []M{}
	}

	if rs.d.CacheKey != "" {
		_ = cache.Set(rs.d.CacheKey, items, rs.d.CacheTTL)
	}

	response.JSON(w, items)
}

// Get responds with a single row or 404.
func (rs *Resource[M]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, (&NotFoundError{Resource: rs.d.Singular}).Error())
		return
	}

	var item M
	err := rs.db.WithContext(r.Context()).First(&item, rs.pkColumn+" = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(w, http.StatusNotFound, (&NotFoundError{Resource: rs.d.Singular}).Error())
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("get failed", "resource", rs.d.Singular, "id", id, "error", err)
		response.ErrorWith(w, http.StatusInternalServerError, "Error fetching "+lowerFirst(rs.d.Singular), err)
		return
	}

	response.JSON(w, item)
}

// Create validates required fields, inserts the row, and echoes the
// generated id under the descriptor's IDKey.
func (rs *Resource[M]) Create(w http.ResponseWriter, r *http.Request) {
	var item M
	errs, err := bind.JSON(r, &item)
	if err != nil {
		response.ErrorWith(w, http.StatusBadRequest, "Invalid request body.", err)
		return
	}
	if len(errs) > 0 {
		response.ErrorWith(w, http.StatusBadRequest, rs.d.RequiredMsg, errors.New(validationDetail(errs)))
		return
	}

	rs.setPK(&item, 0) // ids are store-generated; never trust the client's

	if err := rs.db.WithContext(r.Context()).Create(&item).Error; err != nil {
		rs.writeFault(w, r, err, "Failed to add "+lowerFirst(rs.d.Singular))
		return
	}

	rs.invalidate()
	response.Created(w, rs.d.Singular+" added successfully!", map[string]interface{}{
		rs.d.IDKey: rs.pkValue(item),
	})
}

// Update replaces every column of an existing row, exactly like the
// original full-column UPDATE: optional fields absent from the request
// become null/zero.
func (rs *Resource[M]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, (&NotFoundError{Resource: rs.d.Singular}).Error())
		return
	}

	// Validation first: a bad payload is rejected before any store read,
	// regardless of whether the id exists.
	var item M
	errs, err := bind.JSON(r, &item)
	if err != nil {
		response.ErrorWith(w, http.StatusBadRequest, "Invalid request body.", err)
		return
	}
	if len(errs) > 0 {
		response.ErrorWith(w, http.StatusBadRequest, rs.d.RequiredMsg, errors.New(validationDetail(errs)))
		return
	}

	var existing M
	err = rs.db.WithContext(r.Context()).First(&existing, rs.pkColumn+" = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(w, http.StatusNotFound, (&NotFoundError{Resource: rs.d.Singular}).Error())
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("update lookup failed", "resource", rs.d.Singular, "id", id, "error", err)
		response.ErrorWith(w, http.StatusInternalServerError, "Failed to update "+lowerFirst(rs.d.Singular), err)
		return
	}

	rs.setPK(&item, id)
	if err := rs.db.WithContext(r.Context()).Save(&item).Error; err != nil {
		rs.writeFault(w, r, err, "Failed to update "+lowerFirst(rs.d.Singular))
		return
	}

	rs.invalidate()
	response.OK(w, rs.d.Singular+" updated successfully!")
}

// Delete removes a row by id; 404 when nothing matched, never a partial
// mutation.
func (rs *Resource[M]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, (&NotFoundError{Resource: rs.d.Singular}).Error())
		return
	}

	var item M
	res := rs.db.WithContext(r.Context()).Delete(&item, rs.pkColumn+" = ?", id)
	if res.Error != nil {
		logger.WithCtx(r.Context()).Error("delete failed", "resource", rs.d.Singular, "id", id, "error", res.Error)
		response.ErrorWith(w, http.StatusInternalServerError, "Failed to delete "+lowerFirst(rs.d.Singular), res.Error)
		return
	}
	if res.RowsAffected == 0 {
		response.Error(w, http.StatusNotFound, (&NotFoundError{Resource: rs.d.Singular}).Error())
		return
	}

	rs.invalidate()
	response.OK(w, rs.d.Singular+" deleted successfully!")
}

// writeFault classifies a write error structurally: a translated
// duplicate-key fault becomes a 409 ConflictError naming the violated field,
// anything else a 500 with the fault text attached.
func (rs *Resource[M]) writeFault(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		conflict := &ConflictError{Resource: rs.d.Singular, Field: rs.d.UniqueField}
		response.ErrorWith(w, http.StatusConflict, conflict.Error(), err)
		return
	}

	logger.WithCtx(r.Context()).Error("write failed", "resource", rs.d.Singular, "error", err)
	response.ErrorWith(w, http.StatusInternalServerError, failMsg, err)
}

func (rs *Resource[M]) invalidate() {
	if rs.d.CacheKey != "" {
		_ = cache.Del(rs.d.CacheKey)
	}
}

func (rs *Resource[M]) pkValue(item M) uint {
	return uint(reflect.ValueOf(item).Field(rs.pkIndex).Uint())
}

func (rs *Resource[M]) setPK(item *M, id uint) {
	reflect.ValueOf(item).Elem().Field(rs.pkIndex).SetUint(uint64(id))
}

// pathID parses the {id} path segment. A non-numeric id can match no row, so
// callers treat a parse failure as not-found: the same outcome the store
// would produce.
func pathID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// primaryKey locates M's primary key field by gorm tag and resolves its
// column name.
func primaryKey[M any]() (int, string) {
	t := reflect.TypeOf((*M)(nil)).Elem()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("gorm")
		if !strings.Contains(tag, "primaryKey") {
			continue
		}
		for _, part := range strings.Split(tag, ";") {
			if col, ok := strings.CutPrefix(part, "column:"); ok {
				return i, col
			}
		}
		return i, strings.ToLower(t.Field(i).Name)
	}
	return -1, ""
}

// validationDetail flattens field errors into one deterministic string for
// the error body.
func validationDetail(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, errs[f])
	}
	return strings.Join(parts, " ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
