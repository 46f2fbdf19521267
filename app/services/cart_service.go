package services

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/orm"
)

// CartService maintains the per-user cart: one active line per (user, item),
// quantities merged on repeat adds.
type CartService struct {
	carts *repositories.CartRepository
	items *repositories.ItemRepository
}

func NewCartService(carts *repositories.CartRepository, items *repositories.ItemRepository) *CartService {
	return &CartService{carts: carts, items: items}
}

// AddLine puts qty of an item into the user's cart. If an active line for
// the item already exists the quantity is merged into it; merged reports
// which of the two happened so the handler can answer 200 vs 201.
func (s *CartService) AddLine(userID, itemID uint, qty int) (line models.CartLine, merged bool, err error) {
	if qty < 1 {
		return line, false, InvalidState("quantity must be at least 1")
	}

	if _, err := s.items.FindByID(itemID); err != nil {
		if orm.IsNotFound(err) {
			return line, false, NotFound("item not found")
		}
		return line, false, Internal("look up item", err)
	}

	existing, err := s.carts.FindActiveLine(userID, itemID)
	switch {
	case err == nil:
		existing.Qty += qty
		if err := s.carts.Save(&existing); err != nil {
			return line, false, Internal("merge cart line", err)
		}
		metrics.CartMutations.WithLabelValues("merge").Inc()
		return existing, true, nil

	case orm.IsNotFound(err):
		line = models.CartLine{UserID: userID, ItemID: itemID, Qty: qty}
		if err := s.carts.Create(&line); err != nil {
			return line, false, Internal("create cart line", err)
		}
		metrics.CartMutations.WithLabelValues("add").Inc()
		return line, false, nil

	default:
		return line, false, Internal("look up cart line", err)
	}
}

// ListActive returns the item-joined view of the user's active cart.
// An empty cart is NotFound: the cart page treats "nothing here yet"
// as a distinct state, not an empty list.
func (s *CartService) ListActive(userID uint) ([]repositories.CartLineView, error) {
	view, err := s.carts.ActiveView(userID)
	if err != nil {
		return nil, Internal("load cart", err)
	}
	if len(view) == 0 {
		return nil, NotFound("cart is empty")
	}
	return view, nil
}

// UpdateLine sets the quantity on the user's active line for an item.
func (s *CartService) UpdateLine(userID, itemID uint, qty int) error {
	if qty < 1 {
		return InvalidState("quantity must be at least 1")
	}

	n, err := s.carts.UpdateQty(userID, itemID, qty)
	if err != nil {
		return Internal("update cart line", err)
	}
	if n == 0 {
		return NotFound("no active cart line for this item")
	}
	metrics.CartMutations.WithLabelValues("update").Inc()
	return nil
}

// RemoveLine deletes the user's active line for an item.
func (s *CartService) RemoveLine(userID, itemID uint) error {
	n, err := s.carts.Remove(userID, itemID)
	if err != nil {
		return Internal("remove cart line", err)
	}
	if n == 0 {
		return NotFound("no active cart line for this item")
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()
	return nil
}
