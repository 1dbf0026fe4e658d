package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autohub-go/internal/model"
)

// DealerRepository 接口定义了经销商数据的持久化操作。
type DealerRepository interface {
	Upsert(dealer *model.Dealer) error
	FindByDealerID(dealerID string) (*model.Dealer, error)
	FindAll() ([]model.Dealer, error)
}

type dealerRepository struct {
	db *gorm.DB
}

// NewDealerRepository 创建一个新的 DealerRepository 实例。
func NewDealerRepository(db *gorm.DB) DealerRepository {
	return &dealerRepository{db: db}
}

// Upsert 按 DealerID 插入或更新一条经销商记录。
func (r *dealerRepository) Upsert(dealer *model.Dealer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dealer_id"}},
		UpdateAll: true,
	}).Create(dealer).Error
}

// FindByDealerID 根据业务主键查找一条经销商记录。
func (r *dealerRepository) FindByDealerID(dealerID string) (*model.Dealer, error) {
	var dealer model.Dealer
	err := r.db.Where("dealer_id = ?", dealerID).First(&dealer).Error
	if err != nil {
		return nil, err
	}
	return &dealer, nil
}

// FindAll 检索全部经销商记录。
func (r *dealerRepository) FindAll() ([]model.Dealer, error) {
	var dealers []model.Dealer
	err := r.db.Find(&dealers).Error
	return dealers, err
}
