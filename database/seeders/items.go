package seeders

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("items", SeedItems)
}

// SeedItems loads a small starter catalog. Prices are integer paise.
func SeedItems(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Item{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // already seeded
	}

	items := []models.Item{
		{Name: "Banarasi Silk Saree", Description: "Handwoven silk with zari border", Price: 549900, Photo: "/photos/banarasi.jpg", Category: "sarees"},
		{Name: "Cotton Kurta", Description: "Block-printed everyday kurta", Price: 129900, Photo: "/photos/kurta.jpg", Category: "kurtas"},
		{Name: "Chanderi Dupatta", Description: "Lightweight sheer dupatta", Price: 89900, Photo: "/photos/dupatta.jpg", Category: "dupattas"},
		{Name: "Linen Shirt", Description: "Relaxed-fit summer shirt", Price: 179900, Photo: "/photos/linen.jpg", Category: "shirts"},
		{Name: "Embroidered Juttis", Description: "Hand-stitched leather juttis", Price: 159900, Photo: "/photos/juttis.jpg", Category: "footwear"},
	}
	return db.Create(&items).Error
}
