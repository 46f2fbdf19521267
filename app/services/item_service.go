package services

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/orm"
	"github.com/shashiranjanraj/vastra/pkg/storage"
)

// ItemService handles catalog reads and admin-side writes.
type ItemService struct {
	items *repositories.ItemRepository
}

func NewItemService(items *repositories.ItemRepository) *ItemService {
	return &ItemService{items: items}
}

// List returns one page of the catalog.
func (s *ItemService) List(page, limit int) ([]models.Item, orm.Pagination, error) {
	items, pagination, err := s.items.All(page, limit)
	if err != nil {
		return nil, pagination, Internal("load catalog", err)
	}
	return items, pagination, nil
}

// ByCategory returns all items in a category.
func (s *ItemService) ByCategory(category string) ([]models.Item, error) {
	items, err := s.items.ByCategory(category)
	if err != nil {
		return nil, Internal("load category", err)
	}
	return items, nil
}

// Get returns one item by id.
func (s *ItemService) Get(id uint) (models.Item, error) {
	item, err := s.items.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return item, NotFound("item not found")
		}
		return item, Internal("load item", err)
	}
	return item, nil
}

// Create adds a new catalog item.
func (s *ItemService) Create(item *models.Item) error {
	if err := s.items.Create(item); err != nil {
		return Internal("create item", err)
	}
	s.invalidate(item.Category)
	return nil
}

// Update edits an existing item.
func (s *ItemService) Update(id uint, apply func(*models.Item)) (models.Item, error) {
	item, err := s.items.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return item, NotFound("item not found")
		}
		return item, Internal("load item", err)
	}

	before := item.Category
	apply(&item)
	if err := s.items.Update(&item); err != nil {
		return item, Internal("update item", err)
	}
	s.invalidate(before, item.Category)
	return item, nil
}

// Delete removes an item from the catalog.
func (s *ItemService) Delete(id uint) error {
	item, err := s.items.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return NotFound("item not found")
		}
		return Internal("load item", err)
	}

	ok, err := s.items.Delete(id)
	if err != nil {
		return Internal("delete item", err)
	}
	if !ok {
		return NotFound("item not found")
	}
	s.invalidate(item.Category)
	return nil
}

// SavePhoto stores an uploaded photo on the configured disk and returns
// its public URL. The stored name keeps only the original extension.
func (s *ItemService) SavePhoto(itemID uint, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	path := fmt.Sprintf("items/%d/photo%s", itemID, ext)

	if err := storage.PutStream(path, r); err != nil {
		return "", Internal("store photo", err)
	}

	item, err := s.Update(itemID, func(i *models.Item) {
		i.Photo = storage.URL(path)
	})
	if err != nil {
		return "", err
	}
	return item.Photo, nil
}

func (s *ItemService) invalidate(categories ...string) {
	for _, c := range categories {
		if c == "" {
			continue
		}
		_ = cache.Forget(fmt.Sprintf("items:category:%s", c))
	}
}
