package model

import "github.com/shopspring/decimal"

type OrderItem struct {
	OrderID   string          `gorm:"type:uuid;primaryKey" json:"orderId"`
	ProductID string          `gorm:"type:uuid;primaryKey" json:"productId"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
