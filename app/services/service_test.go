package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/orm"
)

// newTestDB opens a fresh in-memory sqlite database, named after the test
// so parallel tests never share state, and migrates the full schema.
func newTestDB(t *testing.T) *orm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gormDB, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(gormDB) })

	require.NoError(t, gormDB.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderDetail{},
	))
	return orm.New(gormDB)
}

// seedItem inserts one catalog item and returns it.
func seedItem(t *testing.T, db *orm.DB, name string, price int64) models.Item {
	t.Helper()
	item := models.Item{Name: name, Price: price, Photo: "/photos/" + name + ".jpg", Category: "test"}
	require.NoError(t, db.Create(&item))
	return item
}

// seedCartLine inserts one active cart line.
func seedCartLine(t *testing.T, db *orm.DB, userID, itemID uint, qty int) models.CartLine {
	t.Helper()
	line := models.CartLine{UserID: userID, ItemID: itemID, Qty: qty}
	require.NoError(t, db.Create(&line))
	return line
}

// repos builds the full repository set over one handle.
func repos(db *orm.DB) (*repositories.CartRepository, *repositories.OrderRepository, *repositories.ItemRepository, *repositories.UserRepository) {
	return repositories.NewCartRepository(db),
		repositories.NewOrderRepository(db),
		repositories.NewItemRepository(db),
		repositories.NewUserRepository(db)
}

// countRows counts rows of a model, bypassing the services under test.
func countRows(t *testing.T, db *orm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Gorm().Model(model).Count(&n).Error)
	return n
}
