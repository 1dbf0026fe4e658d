// Package model 包含了应用的数据模型定义。
package model

import "time"

// Listing 对应于数据库中的 'listings' 表，是一条车源记录的完整快照。
// ListingID 是对外的业务主键，打分与缓存均以它为键。
type Listing struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ListingID    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"id"`
	Category     string    `gorm:"type:varchar(50)" json:"category"`
	Price        float64   `gorm:"not null;default:0" json:"price"`
	Make         string    `gorm:"type:varchar(50)" json:"make,omitempty"`
	Model        string    `gorm:"type:varchar(50)" json:"model,omitempty"`
	Year         int       `gorm:"default:0" json:"year,omitempty"`
	FuelType     string    `gorm:"type:varchar(30)" json:"fuelType,omitempty"`
	Transmission string    `gorm:"type:varchar(30)" json:"transmission,omitempty"`
	BodyType     string    `gorm:"type:varchar(30)" json:"bodyType,omitempty"`
	Color        string    `gorm:"type:varchar(30)" json:"color,omitempty"`
	Mileage      float64   `gorm:"default:0" json:"mileage,omitempty"`
	City         string    `gorm:"type:varchar(50)" json:"city,omitempty"`
	Condition    string    `gorm:"type:varchar(30)" json:"condition,omitempty"`
	DealerID     string    `gorm:"type:varchar(64);index" json:"dealerId,omitempty"`
	SellerType   string    `gorm:"type:varchar(30)" json:"sellerType,omitempty"`
	BusinessName string    `gorm:"type:varchar(100)" json:"businessName,omitempty"`
	Image        ImageRef  `gorm:"embedded;embeddedPrefix:image_" json:"image,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Listing) TableName() string {
	return "listings"
}
