// Package repository 提供了数据访问层的实现。
package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autohub-go/internal/model"
)

// ListingRepository 接口定义了车源数据的持久化操作。
type ListingRepository interface {
	Upsert(listing *model.Listing) error
	FindByListingID(listingID string) (*model.Listing, error)
	FindAll() ([]model.Listing, error)
	FindWithPagination(offset, limit int) ([]model.Listing, int64, error)
	FindBatchByListingIDs(listingIDs []string) ([]model.Listing, error)
	Delete(listingID string) error
}

// listingRepository 是 ListingRepository 接口的 GORM 实现。
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository 创建一个新的 ListingRepository 实例。
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Upsert 按 ListingID 插入或更新一条车源记录。
func (r *listingRepository) Upsert(listing *model.Listing) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "listing_id"}},
		UpdateAll: true,
	}).Create(listing).Error
}

// FindByListingID 根据业务主键查找一条车源记录。
func (r *listingRepository) FindByListingID(listingID string) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.Where("listing_id = ?", listingID).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindAll 检索全部车源记录，用作推荐的候选集。
func (r *listingRepository) FindAll() ([]model.Listing, error) {
	var listings []model.Listing
	err := r.db.Find(&listings).Error
	return listings, err
}

// FindWithPagination 分页检索车源记录，返回当前页数据与总数。
func (r *listingRepository) FindWithPagination(offset, limit int) ([]model.Listing, int64, error) {
	var listings []model.Listing
	var total int64

	db := r.db.Model(&model.Listing{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// FindBatchByListingIDs 按业务主键批量查找车源记录。
func (r *listingRepository) FindBatchByListingIDs(listingIDs []string) ([]model.Listing, error) {
	var listings []model.Listing
	if len(listingIDs) == 0 {
		return listings, nil
	}
	err := r.db.Where("listing_id IN ?", listingIDs).Find(&listings).Error
	return listings, err
}

// Delete 根据业务主键删除一条车源记录。
func (r *listingRepository) Delete(listingID string) error {
	return r.db.Delete(&model.Listing{}, "listing_id = ?", listingID).Error
}
