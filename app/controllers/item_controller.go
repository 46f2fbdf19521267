package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/resources"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/resource"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

// maxPhotoBytes caps item photo uploads.
const maxPhotoBytes = 8 << 20 // 8 MB

type ItemController struct {
	items *services.ItemService
}

func NewItemController(items *services.ItemService) *ItemController {
	return &ItemController{items: items}
}

// Index lists the catalog, paginated, optionally filtered by category.
func (c *ItemController) Index(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		items, err := c.items.ByCategory(category)
		if err != nil {
			respondErr(w, err)
			return
		}
		resource.CollectionOf(&resources.ItemResource{}, items).Respond(w)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, pagination, err := c.items.List(page, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	resource.CollectionOf(&resources.ItemResource{}, items).
		WithPagination(pagination).
		Respond(w)
}

// Show returns one item.
func (c *ItemController) Show(w http.ResponseWriter, r *http.Request) {
	item, err := c.items.Get(uintParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	resource.New(&resources.ItemResource{}, item).Respond(w)
}

type itemRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"nullable,max=2000"`
	Price       int64  `json:"price"       validate:"required,integer,gte=0"`
	Category    string `json:"category"    validate:"nullable,max=100"`
}

// Create adds a catalog item (admin only, enforced by the route).
func (c *ItemController) Create(w http.ResponseWriter, r *http.Request) {
	var body itemRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item := models.Item{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Category:    body.Category,
	}
	if err := c.items.Create(&item); err != nil {
		respondErr(w, err)
		return
	}
	response.Created(w, item)
}

// Update edits a catalog item (admin only).
func (c *ItemController) Update(w http.ResponseWriter, r *http.Request) {
	var body itemRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.items.Update(uintParam(r, "id"), func(i *models.Item) {
		i.Name = body.Name
		i.Description = body.Description
		i.Price = body.Price
		i.Category = body.Category
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, item)
}

// Delete removes a catalog item (admin only).
func (c *ItemController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.items.Delete(uintParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	response.SuccessMessage(w, "item deleted", nil)
}

// UploadPhoto accepts a multipart photo for an item and stores it on the
// configured disk (admin only).
func (c *ItemController) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	url, err := c.items.SavePhoto(uintParam(r, "id"), header.Filename, file)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"photo": url})
}
