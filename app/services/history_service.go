package services

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/collection"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
)

const historyCacheTTL = 10 * time.Minute

// HistoryDetail is one line of a reconstructed order. Name and Photo come
// from the catalog at read time; Price is the placement-time snapshot, so
// TotalCost reflects what the user actually paid.
type HistoryDetail struct {
	ItemID    uint   `json:"itemId"`
	Name      string `json:"name"`
	Photo     string `json:"photo"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	TotalCost int64  `json:"totalCost"`
}

// HistoryOrder is one reconstructed order, newest first in the history.
type HistoryOrder struct {
	ID           uint            `json:"id"`
	UserID       uint            `json:"userId"`
	Status       string          `json:"status"`
	OrderDate    time.Time       `json:"orderDate"`
	OrderNumber  string          `json:"orderNumber"`
	OrderDetails []HistoryDetail `json:"orderDetails"`
}

// HistoryService rebuilds a user's order history from the flat
// orders/details/items join.
type HistoryService struct {
	orders *repositories.OrderRepository
}

func NewHistoryService(orders *repositories.OrderRepository) *HistoryService {
	return &HistoryService{orders: orders}
}

// ForUser returns the user's confirmed orders, newest first, each carrying
// a display number like "2024001" (prefix + fixed-width index, newest 001).
// A user with no orders gets an empty slice, never an error.
func (s *HistoryService) ForUser(userID uint) ([]HistoryOrder, error) {
	key := HistoryCacheKey(userID)

	var cached []HistoryOrder
	if cache.Get(key, &cached) {
		return cached, nil
	}

	rows, err := s.orders.HistoryRows(userID)
	if err != nil {
		return nil, Internal("load order history", err)
	}

	history := Regroup(rows, config.OrderNumberPrefix())
	metrics.HistoryRebuilds.Inc()

	_ = cache.Set(key, history, historyCacheTTL) // best effort
	return history, nil
}

// Regroup folds the flat join rows into per-order groups, sorts them
// newest first and assigns display numbers. Exposed for the placement
// tests that check numbering against a known set of rows.
func Regroup(rows []repositories.HistoryRow, prefix string) []HistoryOrder {
	grouped := collection.GroupBy(rows, func(r repositories.HistoryRow) uint {
		return r.OrderID
	})

	orders := make([]HistoryOrder, 0, len(grouped))
	for _, group := range grouped {
		head := group[0]
		order := HistoryOrder{
			ID:           head.OrderID,
			UserID:       head.UserID,
			Status:       head.Status,
			OrderDate:    head.OrderDate,
			OrderDetails: []HistoryDetail{},
		}
		for _, r := range group {
			if r.DetailID == 0 {
				continue // order with no details: keep it, with an empty list
			}
			order.OrderDetails = append(order.OrderDetails, HistoryDetail{
				ItemID:    r.ItemID,
				Name:      r.ItemName,
				Photo:     r.ItemPhoto,
				Quantity:  r.Qty,
				Price:     r.Price,
				TotalCost: int64(r.Qty) * r.Price,
			})
		}
		orders = append(orders, order)
	}

	collection.SortBy(orders, func(a, b HistoryOrder) bool {
		if !a.OrderDate.Equal(b.OrderDate) {
			return a.OrderDate.After(b.OrderDate)
		}
		return a.ID > b.ID
	})

	for i := range orders {
		orders[i].OrderNumber = fmt.Sprintf("%s%03d", prefix, i+1)
	}
	return orders
}

// Total sums the line totals of one reconstructed order.
func (o HistoryOrder) Total() int64 {
	return collection.SumInt(o.OrderDetails, func(d HistoryDetail) int64 {
		return d.TotalCost
	})
}
