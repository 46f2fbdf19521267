package models

import "gorm.io/gorm"

// CartLine is one (user, item) entry in a shopping cart.
//
// A line is "active" while Ordered is false. Adding the same item again
// merges into the active line instead of creating a duplicate, so at most
// one active line exists per (user, item). Placement flips Ordered to true,
// which retires the line from the cart while keeping it as a record of
// what was converted.
type CartLine struct {
	gorm.Model
	UserID  uint `gorm:"not null;index:idx_cart_user_item" json:"user_id"`
	ItemID  uint `gorm:"not null;index:idx_cart_user_item" json:"item_id"`
	Qty     int  `gorm:"not null"                          json:"qty"`
	Ordered bool `gorm:"not null;default:false;index"      json:"ordered"`
}
