package services

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/event"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/orm"
)

// EventOrderPlaced fires after a placement commits. Payload: OrderPlaced.
const EventOrderPlaced = "order.placed"

// OrderPlaced is the payload broadcast on EventOrderPlaced.
type OrderPlaced struct {
	OrderID uint  `json:"order_id"`
	UserID  uint  `json:"user_id"`
	Lines   int   `json:"lines"`
	Total   int64 `json:"total"`
}

// OrderService converts a user's active cart into an order.
type OrderService struct {
	db     *orm.DB
	carts  *repositories.CartRepository
	orders *repositories.OrderRepository
	items  *repositories.ItemRepository
}

func NewOrderService(
	db *orm.DB,
	carts *repositories.CartRepository,
	orders *repositories.OrderRepository,
	items *repositories.ItemRepository,
) *OrderService {
	return &OrderService{db: db, carts: carts, orders: orders, items: items}
}

// PlaceOrder converts every active cart line of the user into an order.
//
// The whole conversion runs inside one transaction: the cart is checked
// first, so an empty cart never creates an order row; each line's ordered
// flag is flipped with a guarded update, so two placements racing over the
// same cart cannot both convert a line; any failure rolls everything back.
func (s *OrderService) PlaceOrder(userID uint) (models.Order, error) {
	var order models.Order
	var placed OrderPlaced

	err := s.db.Transaction(func(tx *orm.DB) error {
		carts := s.carts.WithTx(tx)
		orders := s.orders.WithTx(tx)
		items := s.items.WithTx(tx)

		lines, err := carts.ActiveLines(userID)
		if err != nil {
			return Internal("load cart", err)
		}
		if len(lines) == 0 {
			return InvalidState("cart is empty")
		}

		order = models.Order{
			UserID:    userID,
			Status:    models.OrderStatusConfirmed,
			OrderDate: time.Now(),
		}
		if err := orders.Create(&order); err != nil {
			return Internal("create order", err)
		}

		var total int64
		for _, line := range lines {
			item, err := items.FindByID(line.ItemID)
			if err != nil && !orm.IsNotFound(err) {
				return Internal("look up item", err)
			}

			detail := models.OrderDetail{
				OrderID: order.ID,
				ItemID:  line.ItemID,
				Qty:     line.Qty,
				Price:   item.Price, // zero when the item vanished from the catalog
			}
			if err := orders.CreateDetail(&detail); err != nil {
				return Internal("create order detail", err)
			}
			order.Details = append(order.Details, detail)
			total += int64(detail.Qty) * detail.Price

			n, err := carts.MarkOrdered(line.ID)
			if err != nil {
				return Internal("convert cart line", err)
			}
			if n != 1 {
				return InvalidState("cart changed while placing the order")
			}
		}

		placed = OrderPlaced{
			OrderID: order.ID,
			UserID:  userID,
			Lines:   len(lines),
			Total:   total,
		}
		return nil
	})
	if err != nil {
		if se, ok := err.(*Error); ok {
			return models.Order{}, se
		}
		return models.Order{}, Internal("place order", err)
	}

	// Post-commit: stale history out of the cache, then tell the world.
	if err := cache.Forget(HistoryCacheKey(userID)); err != nil {
		logger.Warn("order: history cache invalidation failed", "user_id", userID, "error", err)
	}

	metrics.OrdersPlaced.Inc()
	metrics.OrderLinesConverted.Add(float64(placed.Lines))
	logger.Info("order placed",
		"order_id", placed.OrderID,
		"user_id", placed.UserID,
		"lines", placed.Lines,
		"total", placed.Total,
	)
	event.FireAsync(EventOrderPlaced, placed)

	return order, nil
}

// HistoryCacheKey is the cache key for one user's order history.
func HistoryCacheKey(userID uint) string {
	return fmt.Sprintf("orders:history:%d", userID)
}
