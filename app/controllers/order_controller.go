package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

type OrderController struct {
	orders  *services.OrderService
	history *services.HistoryService
}

func NewOrderController(orders *services.OrderService, history *services.HistoryService) *OrderController {
	return &OrderController{orders: orders, history: history}
}

type placeOrderRequest struct {
	UserID uint `json:"userId" validate:"required"`
}

// Place converts the user's active cart into a confirmed order.
// 201 on success, 400 when the cart is empty.
func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	var body placeOrderRequest
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

	order, err := c.orders.PlaceOrder(body.UserID)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.CreatedMessage(w, "order placed", order)
}

// History returns the user's confirmed orders, newest first, numbered.
// A user with no orders gets 200 with an empty array.
func (c *OrderController) History(w http.ResponseWriter, r *http.Request) {
	userID := uintParam(r, "userId")
	if !authorizeUser(w, r, userID) {
		return
	}

	history, err := c.history.ForUser(userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, history)
}
