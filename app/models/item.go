package models

import "gorm.io/gorm"

// Item represents one catalog entry.
// Price is stored as integer paise so line totals stay exact.
type Item struct {
	gorm.Model
	Name        string `gorm:"size:255;not null;index" json:"name"`
	Description string `gorm:"type:text"               json:"description"`
	Price       int64  `gorm:"not null;default:0"      json:"price"`
	Photo       string `gorm:"size:512"                json:"photo"`
	Category    string `gorm:"size:100;index"          json:"category"`
}
