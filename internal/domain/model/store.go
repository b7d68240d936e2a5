package model

import "time"

type StoreStatus string

const (
	StoreStatusPending  StoreStatus = "pending"
	StoreStatusApproved StoreStatus = "approved"
	StoreStatusRejected StoreStatus = "rejected"
)

// 出品者の店舗。1ユーザーにつき1店舗
type Store struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string      `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	Username    string      `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Email       string      `gorm:"type:varchar(255);not null" json:"email"`
	Contact     string      `gorm:"type:varchar(50);not null" json:"contact"`
	Address     string      `gorm:"type:text;not null" json:"address"`
	Logo        string      `gorm:"type:text;not null" json:"logo"`
	Status      StoreStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	IsActive    bool        `gorm:"not null;default:false" json:"isActive"`
	CreatedAt   time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updatedAt"`
}

// 承認済みかつ有効な店舗だけがストアフロントに出る
func (s Store) IsVisible() bool {
	return s.Status == StoreStatusApproved && s.IsActive
}
