package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"column:name;size:200;not null;index" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description,omitempty"`
	Brand       string          `gorm:"column:brand;size:100;index" json:"brand,omitempty"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null;index" json:"price"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	CategoryID  uint            `gorm:"column:category_id;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Attributes  datatypes.JSON  `gorm:"column:attributes;type:jsonb" json:"attributes,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
