package database

import (
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Order{},
	)
}
