package seeders

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin-user", SeedAdminUser)
}

// SeedAdminUser creates the initial admin account if none exists.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "change-me-now"))
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Admin",
		Email:    config.Get("ADMIN_EMAIL", "admin@vastra.shop"),
		Password: hash,
		Role:     "admin",
	}
	return db.Create(&admin).Error
}
