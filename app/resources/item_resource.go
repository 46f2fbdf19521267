// Package resources holds the API resource transformers for catalog
// responses.
package resources

import (
	"fmt"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/resource"
)

// ItemResource shapes a catalog item for API responses.
type ItemResource struct{ resource.Base }

func (r *ItemResource) ToArray(v interface{}) resource.Map {
	var item models.Item
	switch m := v.(type) {
	case models.Item:
		item = m
	case *models.Item:
		item = *m
	default:
		return resource.Map{}
	}

	return resource.Map{
		"id":          item.ID,
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
		"photo":       item.Photo,
		"category":    item.Category,
		"links":       resource.Map{"self": fmt.Sprintf("/api/items/%d", item.ID)},
	}
}
