// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// Dealer 对应于数据库中的 'dealers' 表。
type Dealer struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	DealerID     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"dealerId"`
	BusinessName string    `gorm:"type:varchar(100);not null" json:"businessName"`
	SellerType   string    `gorm:"type:varchar(30)" json:"sellerType"`
	City         string    `gorm:"type:varchar(50)" json:"city,omitempty"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Dealer) TableName() string {
	return "dealers"
}
