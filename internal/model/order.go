package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"column:user_id;not null;index" json:"user_id"`
	Status     string          `gorm:"column:status;size:20;not null;default:pending;index" json:"status"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null" json:"total_price"`
	CreatedAt  time.Time       `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
