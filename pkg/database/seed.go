package database

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/model"
)

// Seed creates sample catalogue data on an empty database
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		// Already seeded
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		fruit := model.Category{Name: "Fruit"}
		drinks := model.Category{Name: "Drinks"}
		if err := tx.Create(&fruit).Error; err != nil {
			return err
		}
		if err := tx.Create(&drinks).Error; err != nil {
			return err
		}

		products := []model.Product{
			{Name: "Apple", Brand: "Orchard", Price: decimal.NewFromInt(1200), Stock: 50, CategoryID: fruit.ID,
				Attributes: datatypes.JSON(`{"origin":"local"}`)},
			{Name: "Banana", Brand: "Tropic", Price: decimal.NewFromInt(800), Stock: 120, CategoryID: fruit.ID},
			{Name: "Orange Juice", Brand: "Tropic", Price: decimal.NewFromInt(2500), Stock: 30, CategoryID: drinks.ID,
				Attributes: datatypes.JSON(`{"volume_ml":1000}`)},
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}

		orders := []model.Order{
			{UserID: 1, Status: model.OrderStatusPaid, TotalPrice: decimal.NewFromInt(3700)},
			{UserID: 2, Status: model.OrderStatusPending, TotalPrice: decimal.NewFromInt(800)},
		}
		return tx.Create(&orders).Error
	})
}
