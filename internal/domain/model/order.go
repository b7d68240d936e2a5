package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "ORDER_PLACED"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusPackaged       OrderStatus = "PACKAGED"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentStripe PaymentMethod = "STRIPE"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCOD || p == PaymentStripe
}

type Order struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string `gorm:"type:uuid;not null;index" json:"userId"`
	StoreID   string `gorm:"type:uuid;not null;index" json:"storeId"`
	AddressID string `gorm:"type:uuid;not null" json:"addressId"`

	Shipping ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping"`

	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	IsPaid        bool            `gorm:"not null;default:false" json:"isPaid"`
	IsCouponUsed  bool            `gorm:"not null;default:false" json:"isCouponUsed"`
	// 適用時点のクーポンをJSONで保持（外部キーではない）
	Coupon CouponSnapshot `gorm:"type:text;not null;default:'{}'" json:"coupon"`
	Status OrderStatus    `gorm:"type:varchar(30);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// 読み戻し用のリレーション
	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"orderItems"`
	Address *Address    `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	User    *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Store   *Store      `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

// CouponSnapshot は text 列に保存したクーポンの JSON。
// レスポンスでは文字列ではなくオブジェクトとして出す。
type CouponSnapshot string

func (c CouponSnapshot) MarshalJSON() ([]byte, error) {
	if c == "" || !json.Valid([]byte(c)) {
		return []byte("{}"), nil
	}
	return []byte(c), nil
}

func (c *CouponSnapshot) UnmarshalJSON(b []byte) error {
	if !json.Valid(b) || string(b) == "null" {
		*c = "{}"
		return nil
	}
	*c = CouponSnapshot(b)
	return nil
}
