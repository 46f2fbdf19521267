// Package orm is a thin query/update wrapper over GORM.
//
// It exposes the handful of primitives the repositories need — find,
// insert, update, delete, count — plus Transaction, so multi-step writes
// like order placement run as a single atomic unit.
//
//	db := orm.New(gormDB)
//	var line models.CartLine
//	err := db.Model(&models.CartLine{}).
//	    Where("user_id = ? AND ordered = ?", userID, false).
//	    First(&line)
package orm

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Cacher is the read-through cache hook used by Query.Cache.
// Wired to pkg/cache at boot; nil disables caching.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is set once at boot (see internal/server).
var CacheStore Cacher

// DB wraps an injected *gorm.DB handle.
type DB struct {
	db *gorm.DB
}

// New wraps a GORM handle. The same handle may back many repositories.
func New(db *gorm.DB) *DB {
	return &DB{db: db}
}

// Gorm exposes the underlying handle for migrations and seeders.
func (d *DB) Gorm() *gorm.DB {
	return d.db
}

// Model starts a query chain against the given model.
func (d *DB) Model(v interface{}) *Query {
	return &Query{db: d.db.Model(v)}
}

// Create inserts a new record.
func (d *DB) Create(v interface{}) error {
	return d.db.Create(v).Error
}

// Save persists all fields of an existing record.
func (d *DB) Save(v interface{}) error {
	return d.db.Save(v).Error
}

// Transaction runs fn inside a database transaction. Any error returned
// by fn rolls the whole unit back.
func (d *DB) Transaction(fn func(tx *DB) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(&DB{db: tx})
	})
}

// Query is a chainable read/write builder.
type Query struct {
	db *gorm.DB
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(expr string) *Query {
	return &Query{db: q.db.Order(expr)}
}

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row. Returns gorm.ErrRecordNotFound
// when nothing matches.
func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Count returns the number of matching rows.
func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Updates applies a column map to all matching rows and returns how many
// rows were touched. Callers that must not double-apply a state change
// (the ordered flag flip) assert on the affected count.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// Delete removes all matching rows of the model and reports how many went.
func (q *Query) Delete() (int64, error) {
	res := q.db.Delete(q.db.Statement.Model)
	return res.RowsAffected, res.Error
}

// Cache is a read-through cache for Get: on a hit dest is filled from the
// cache, on a miss the query runs and the result is stored for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// GetWithPagination loads one page of matching rows into dest.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	total, err := q.Count()
	if err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * limit
	if err := q.db.Offset(offset).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

// Raw runs a raw SQL query and scans the rows into dest. Used by the
// aggregating reads (cart view, order history) that join across tables.
func (d *DB) Raw(sql string, dest interface{}, args ...interface{}) error {
	return d.db.Raw(sql, args...).Scan(dest).Error
}

// IsNotFound reports whether err is GORM's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
