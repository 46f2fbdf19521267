package repositories

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/orm"
)

const itemCacheTTL = 5 * time.Minute

// ItemRepository handles database operations for the catalog.
type ItemRepository struct {
	db *orm.DB
}

func NewItemRepository(db *orm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// All returns one page of catalog items.
func (r *ItemRepository) All(page, limit int) ([]models.Item, orm.Pagination, error) {
	var items []models.Item
	pagination, err := r.db.Model(&models.Item{}).
		Order("name asc").
		GetWithPagination(&items, page, limit)
	return items, pagination, err
}

// ByCategory returns all items in a category, cached for a few minutes.
func (r *ItemRepository) ByCategory(category string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.Model(&models.Item{}).
		Where("category = ?", category).
		Order("name asc").
		Cache(fmt.Sprintf("items:category:%s", category), itemCacheTTL, &items)
	return items, err
}

// FindByID looks up one item by primary key.
func (r *ItemRepository) FindByID(id uint) (models.Item, error) {
	var item models.Item
	err := r.db.Model(&models.Item{}).Where("id = ?", id).First(&item)
	return item, err
}

// Create persists a new catalog item.
func (r *ItemRepository) Create(item *models.Item) error {
	return r.db.Create(item)
}

// Update persists changes to an existing item.
func (r *ItemRepository) Update(item *models.Item) error {
	return r.db.Save(item)
}

// WithTx returns an ItemRepository bound to the given transaction handle.
func (r *ItemRepository) WithTx(tx *orm.DB) *ItemRepository {
	return &ItemRepository{db: tx}
}

// Delete soft-deletes an item and reports whether a row was removed.
func (r *ItemRepository) Delete(id uint) (bool, error) {
	n, err := r.db.Model(&models.Item{}).Where("id = ?", id).Delete()
	return n > 0, err
}
