package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. The schema default is Pending, but the placement
// workflow always sets Confirmed explicitly in the same transaction that
// converts the cart, so a lingering Pending row signals an interrupted
// write from outside the workflow.
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "confirmed"
)

// Order is one placed order. OrderNumber is not stored: history reads
// derive it from the order's position in the user's sorted history.
type Order struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index"                json:"user_id"`
	Status    string    `gorm:"size:50;not null;default:Pending" json:"status"`
	OrderDate time.Time `gorm:"not null;index"                json:"order_date"`

	Details []OrderDetail `gorm:"foreignKey:OrderID" json:"details,omitempty"`
}

// OrderDetail is one line of an order. Price snapshots the item's price
// at placement time; later catalog edits do not rewrite history.
type OrderDetail struct {
	gorm.Model
	OrderID uint  `gorm:"not null;index" json:"order_id"`
	ItemID  uint  `gorm:"not null;index" json:"item_id"`
	Qty     int   `gorm:"not null"       json:"qty"`
	Price   int64 `gorm:"not null"       json:"price"`
}
