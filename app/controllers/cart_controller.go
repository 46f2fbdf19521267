package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/router"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

// uintParam parses a numeric URL parameter, 0 when absent or malformed.
func uintParam(r *http.Request, key string) uint {
	n, err := strconv.ParseUint(router.Param(r, key), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// authorizeUser ensures the authenticated caller is acting on their own
// resources. Admin tokens may act on any user.
func authorizeUser(w http.ResponseWriter, r *http.Request, userID uint) bool {
	claimsID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return false
	}
	if claimsID != userID {
		if role, _ := middleware.RoleFromCtx(r); role != "admin" {
			response.Forbidden(w)
			return false
		}
	}
	return true
}

type addToCartRequest struct {
	UserID uint `json:"userId" validate:"required"`
	ItemID uint `json:"itemId" validate:"required"`
	Qty    int  `json:"qty"    validate:"required,integer,gte=1"`
}

// Add puts an item into the cart: 201 for a new line, 200 when the
// quantity merged into an existing one.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var body addToCartRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if !authorizeUser(w, r, body.UserID) {
		return
	}

	line, merged, err := c.cart.AddLine(body.UserID, body.ItemID, body.Qty)
	if err != nil {
		respondErr(w, err)
		return
	}

	if merged {
		response.SuccessMessage(w, "quantity updated", line)
		return
	}
	response.CreatedMessage(w, "item added to cart", line)
}

// List returns the item-joined active cart for a user.
func (c *CartController) List(w http.ResponseWriter, r *http.Request) {
	userID := uintParam(r, "userId")
	if !authorizeUser(w, r, userID) {
		return
	}

	view, err := c.cart.ListActive(userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, view)
}

type updateCartRequest struct {
	Qty int `json:"qty" validate:"required,integer,gte=1"`
}

// Update sets the quantity on one active cart line.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	userID := uintParam(r, "userId")
	itemID := uintParam(r, "itemId")
	if !authorizeUser(w, r, userID) {
		return
	}

	var body updateCartRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.cart.UpdateLine(userID, itemID, body.Qty); err != nil {
		respondErr(w, err)
		return
	}
	response.SuccessMessage(w, "cart line updated", nil)
}

// Remove deletes one active cart line.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	userID := uintParam(r, "userId")
	itemID := uintParam(r, "itemId")
	if !authorizeUser(w, r, userID) {
		return
	}

	if err := c.cart.RemoveLine(userID, itemID); err != nil {
		respondErr(w, err)
		return
	}
	response.SuccessMessage(w, "cart line removed", nil)
}
