package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/app/services"
)

func TestAddLineCreatesThenMerges(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	item := seedItem(t, db, "kurta", 129900)

	line, merged, err := svc.AddLine(1, item.ID, 2)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, 2, line.Qty)

	// Same (user, item) again: quantities merge, no second line.
	line, merged, err = svc.AddLine(1, item.ID, 3)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, 5, line.Qty)

	active, err := carts.ActiveLines(1)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestAddLineSeparatePerUser(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	item := seedItem(t, db, "saree", 549900)

	_, merged, err := svc.AddLine(1, item.ID, 1)
	require.NoError(t, err)
	assert.False(t, merged)

	// Another user adding the same item gets their own line.
	_, merged, err = svc.AddLine(2, item.ID, 1)
	require.NoError(t, err)
	assert.False(t, merged)
}

func TestAddLineUnknownItem(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	_, _, err := svc.AddLine(1, 999, 1)
	require.Error(t, err)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}

func TestAddLineRejectsZeroQty(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	item := seedItem(t, db, "dupatta", 89900)

	_, _, err := svc.AddLine(1, item.ID, 0)
	require.Error(t, err)
	assert.Equal(t, services.KindInvalidState, services.KindOf(err))
}

func TestListActiveJoinsItems(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	item := seedItem(t, db, "juttis", 159900)
	seedCartLine(t, db, 7, item.ID, 2)

	view, err := svc.ListActive(7)
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, item.ID, view[0].ItemID)
	assert.Equal(t, "juttis", view[0].Name)
	assert.Equal(t, int64(159900), view[0].Price)
	assert.Equal(t, "/photos/juttis.jpg", view[0].Photo)
	assert.Equal(t, 2, view[0].Qty)
}

func TestListActiveEmptyCartIsNotFound(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	_, err := svc.ListActive(42)
	require.Error(t, err)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}

func TestListActiveSkipsOrderedLines(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	item := seedItem(t, db, "shirt", 179900)
	line := seedCartLine(t, db, 3, item.ID, 1)

	n, err := carts.MarkOrdered(line.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = svc.ListActive(3)
	require.Error(t, err)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}

func TestUpdateLine(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	item := seedItem(t, db, "kurta", 129900)
	seedCartLine(t, db, 1, item.ID, 1)

	require.NoError(t, svc.UpdateLine(1, item.ID, 4))

	line, err := carts.FindActiveLine(1, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, line.Qty)
}

func TestUpdateLineNoActiveLine(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	item := seedItem(t, db, "kurta", 129900)

	err := svc.UpdateLine(1, item.ID, 4)
	require.Error(t, err)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}

func TestRemoveLine(t *testing.T) {
	db := newTestDB(t)
	carts, _, items, _ := repos(db)
	svc := services.NewCartService(carts, items)

	item := seedItem(t, db, "saree", 549900)
	seedCartLine(t, db, 1, item.ID, 1)

	require.NoError(t, svc.RemoveLine(1, item.ID))

	err := svc.RemoveLine(1, item.ID)
	require.Error(t, err)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}
