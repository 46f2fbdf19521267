package migrations

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_items_table", &CreateItemsTable{})
	migration.Register("20260101000002_create_cart_lines_table", &CreateCartLinesTable{})
	migration.Register("20260101000003_create_orders_tables", &CreateOrdersTables{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: items --------

type CreateItemsTable struct{}

func (m *CreateItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Item{})
}

func (m *CreateItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("items")
}

// -------- 0003: cart_lines --------

type CreateCartLinesTable struct{}

func (m *CreateCartLinesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.CartLine{})
}

func (m *CreateCartLinesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_lines")
}

// -------- 0004: orders + order_details --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderDetail{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_details", "orders")
}
