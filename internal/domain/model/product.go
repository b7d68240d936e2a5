package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID     string          `gorm:"type:uuid;not null;index" json:"storeId"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	MRP         decimal.Decimal `gorm:"column:mrp;type:numeric(12,2);not null" json:"mrp"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Category    string          `gorm:"type:varchar(100);not null" json:"category"`
	Images      []string        `gorm:"type:jsonb;serializer:json;not null" json:"images"`
	InStock     bool            `gorm:"not null;default:true" json:"inStock"`
	CreatedAt   time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updatedAt"`
}
