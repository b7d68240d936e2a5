package model

import "time"

type ClientType string

const (
	ClientIndividual   ClientType = "individual"
	ClientBusiness     ClientType = "business"
	ClientOrganization ClientType = "organization"
)

type AddressType string

const (
	AddressHome      AddressType = "home"
	AddressOffice    AddressType = "office"
	AddressWarehouse AddressType = "warehouse"
	AddressOther     AddressType = "other"
)

// 配送先住所
// 作成と削除のみ。更新はしない（注文側にはスナップショットを残す）
type Address struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"userId"`

	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Email   string `gorm:"type:varchar(255);not null" json:"email"`
	Street  string `gorm:"type:varchar(255);not null" json:"street"`
	City    string `gorm:"type:varchar(255);not null" json:"city"`
	State   string `gorm:"type:varchar(255);not null" json:"state"`
	Zip     string `gorm:"type:varchar(20);not null" json:"zip"`
	Country string `gorm:"type:varchar(100);not null" json:"country"`
	Phone   string `gorm:"type:varchar(30);not null" json:"phone"`

	ClientType  ClientType  `gorm:"type:varchar(20);not null;default:'individual'" json:"clientType"`
	AddressType AddressType `gorm:"type:varchar(20);not null;default:'home'" json:"addressType"`
	Notes       string      `gorm:"type:text;not null;default:''" json:"notes"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// 注文時点の住所。Address を後から消しても注文側は変わらない
type ShippingAddress struct {
	Name    string `gorm:"type:varchar(255)" json:"name"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Street  string `gorm:"type:varchar(255)" json:"street"`
	City    string `gorm:"type:varchar(255)" json:"city"`
	State   string `gorm:"type:varchar(255)" json:"state"`
	Zip     string `gorm:"type:varchar(20)" json:"zip"`
	Country string `gorm:"type:varchar(100)" json:"country"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`
}

func (a Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		Name:    a.Name,
		Email:   a.Email,
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
		Phone:   a.Phone,
	}
}
