package model

import "time"

// クーポン。code は書き込み時に大文字へ正規化する
type Coupon struct {
	Code        string    `gorm:"type:varchar(50);primaryKey" json:"code"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Discount    int       `gorm:"not null" json:"discount"`
	ForNewUser  bool      `gorm:"not null;default:false" json:"forNewUser"`
	ForMember   bool      `gorm:"not null;default:false" json:"forMember"`
	IsPublic    bool      `gorm:"not null;default:false" json:"isPublic"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
