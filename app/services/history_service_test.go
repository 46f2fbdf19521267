package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
)

func day(n int) time.Time {
	return time.Date(2026, time.August, n, 12, 0, 0, 0, time.UTC)
}

func TestRegroupGroupsSortsAndNumbers(t *testing.T) {
	rows := []repositories.HistoryRow{
		{OrderID: 10, UserID: 1, Status: "confirmed", OrderDate: day(1), DetailID: 1, ItemID: 5, Qty: 2, Price: 100, ItemName: "saree", ItemPhoto: "/p/saree.jpg"},
		{OrderID: 10, UserID: 1, Status: "confirmed", OrderDate: day(1), DetailID: 2, ItemID: 6, Qty: 1, Price: 250, ItemName: "kurta", ItemPhoto: "/p/kurta.jpg"},
		{OrderID: 11, UserID: 1, Status: "confirmed", OrderDate: day(3), DetailID: 3, ItemID: 5, Qty: 1, Price: 120, ItemName: "saree", ItemPhoto: "/p/saree.jpg"},
		{OrderID: 12, UserID: 1, Status: "confirmed", OrderDate: day(2), DetailID: 4, ItemID: 6, Qty: 4, Price: 250, ItemName: "kurta", ItemPhoto: "/p/kurta.jpg"},
	}

	history := services.Regroup(rows, "2026")
	require.Len(t, history, 3)

	// Newest first, numbered 001 upward with a fixed-width index.
	assert.Equal(t, uint(11), history[0].ID)
	assert.Equal(t, "2026001", history[0].OrderNumber)
	assert.Equal(t, uint(12), history[1].ID)
	assert.Equal(t, "2026002", history[1].OrderNumber)
	assert.Equal(t, uint(10), history[2].ID)
	assert.Equal(t, "2026003", history[2].OrderNumber)

	// Details regrouped under their order with exact line totals.
	require.Len(t, history[2].OrderDetails, 2)
	assert.Equal(t, int64(200), history[2].OrderDetails[0].TotalCost)
	assert.Equal(t, int64(250), history[2].OrderDetails[1].TotalCost)
	assert.Equal(t, int64(450), history[2].Total())
}

func TestRegroupKeepsOrderWithoutDetails(t *testing.T) {
	rows := []repositories.HistoryRow{
		// DetailID 0 is what the left join produces for a detail-less order.
		{OrderID: 20, UserID: 1, Status: "confirmed", OrderDate: day(1), DetailID: 0},
	}

	history := services.Regroup(rows, "2026")
	require.Len(t, history, 1)
	assert.Equal(t, uint(20), history[0].ID)
	assert.NotNil(t, history[0].OrderDetails)
	assert.Empty(t, history[0].OrderDetails)
}

func TestRegroupMissingItemKeepsDetail(t *testing.T) {
	rows := []repositories.HistoryRow{
		// Item deleted from the catalog: name/photo empty, snapshot price kept.
		{OrderID: 30, UserID: 1, Status: "confirmed", OrderDate: day(1), DetailID: 9, ItemID: 77, Qty: 2, Price: 500},
	}

	history := services.Regroup(rows, "2026")
	require.Len(t, history, 1)
	require.Len(t, history[0].OrderDetails, 1)

	d := history[0].OrderDetails[0]
	assert.Equal(t, uint(77), d.ItemID)
	assert.Empty(t, d.Name)
	assert.Empty(t, d.Photo)
	assert.Equal(t, int64(1000), d.TotalCost)
}

func TestRegroupSameDateBreaksTiesByID(t *testing.T) {
	rows := []repositories.HistoryRow{
		{OrderID: 40, UserID: 1, Status: "confirmed", OrderDate: day(5), DetailID: 1, ItemID: 1, Qty: 1, Price: 10},
		{OrderID: 41, UserID: 1, Status: "confirmed", OrderDate: day(5), DetailID: 2, ItemID: 1, Qty: 1, Price: 10},
	}

	history := services.Regroup(rows, "2026")
	require.Len(t, history, 2)
	assert.Equal(t, uint(41), history[0].ID)
	assert.Equal(t, uint(40), history[1].ID)
}

func TestForUserEmptyHistoryIsEmptySlice(t *testing.T) {
	db := newTestDB(t)
	_, orders, _, _ := repos(db)
	svc := services.NewHistoryService(orders)

	history, err := svc.ForUser(99)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestForUserEndToEnd(t *testing.T) {
	db := newTestDB(t)
	carts, orders, items, _ := repos(db)
	orderSvc := services.NewOrderService(db, carts, orders, items)
	historySvc := services.NewHistoryService(orders)

	saree := seedItem(t, db, "saree", 549900)
	kurta := seedItem(t, db, "kurta", 129900)

	seedCartLine(t, db, 1, saree.ID, 1)
	first, err := orderSvc.PlaceOrder(1)
	require.NoError(t, err)

	seedCartLine(t, db, 1, kurta.ID, 2)
	second, err := orderSvc.PlaceOrder(1)
	require.NoError(t, err)

	history, err := historySvc.ForUser(1)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// The later placement leads the history and gets number 001.
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.Regexp(t, `^\d+001$`, history[0].OrderNumber)
	assert.Regexp(t, `^\d+002$`, history[1].OrderNumber)

	require.Len(t, history[0].OrderDetails, 1)
	assert.Equal(t, "kurta", history[0].OrderDetails[0].Name)
	assert.Equal(t, int64(259800), history[0].OrderDetails[0].TotalCost)

	// Pending orders never show in history.
	require.NoError(t, db.Create(&models.Order{UserID: 1, Status: models.OrderStatusPending, OrderDate: day(9)}))
	history, err = historySvc.ForUser(1)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
