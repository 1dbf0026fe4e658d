// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"time"

	"autohub-go/internal/config"
	"autohub-go/internal/model"
	"autohub-go/internal/repository"
	"autohub-go/internal/similarity"
	"autohub-go/pkg/log"
	"autohub-go/pkg/storage"
)

// 预签名图片链接的有效期。
const imageURLExpiry = 24 * time.Hour

// ListingService 接口定义了车源查询与相似推荐的业务操作。
type ListingService interface {
	GetListing(ctx context.Context, listingID string) (*model.Listing, error)
	ListListings(ctx context.Context, page, size int) ([]model.Listing, int64, error)
	GetSimilar(ctx context.Context, listingID string, opts similarity.Options) ([]similarity.Match, error)
}

type listingService struct {
	listingRepo  repository.ListingRepository
	similarCache repository.SimilarCacheRepository
}

// NewListingService 创建一个新的 ListingService 实例。
func NewListingService(listingRepo repository.ListingRepository, similarCache repository.SimilarCacheRepository) ListingService {
	return &listingService{
		listingRepo:  listingRepo,
		similarCache: similarCache,
	}
}

// GetListing 获取单条车源并解析图片链接。
func (s *listingService) GetListing(ctx context.Context, listingID string) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByListingID(listingID)
	if err != nil {
		return nil, err
	}
	resolveImage(listing)
	return listing, nil
}

// ListListings 分页获取车源列表。
func (s *listingService) ListListings(ctx context.Context, page, size int) ([]model.Listing, int64, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	listings, total, err := s.listingRepo.FindWithPagination((page-1)*size, size)
	if err != nil {
		return nil, 0, err
	}
	for i := range listings {
		resolveImage(&listings[i])
	}
	return listings, total, nil
}

// GetSimilar 返回与指定车源相似的推荐列表。
// 默认参数下优先走管线预计算的 Redis 缓存；带定制参数的请求总是现算。
func (s *listingService) GetSimilar(ctx context.Context, listingID string, opts similarity.Options) ([]similarity.Match, error) {
	if isDefaultOptions(opts) {
		cached, hit, err := s.similarCache.Get(ctx, listingID)
		if err != nil {
			// 缓存故障降级为现算
			log.Warnf("[ListingService] 读取相似缓存失败, listingID: %s, error: %v", listingID, err)
		} else if hit {
			log.Infof("[ListingService] 相似缓存命中, listingID: %s", listingID)
			for i := range cached {
				resolveImage(&cached[i].Listing)
			}
			return cached, nil
		}
	}

	main, err := s.listingRepo.FindByListingID(listingID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.listingRepo.FindAll()
	if err != nil {
		return nil, err
	}

	matches := similarity.Rank(*main, candidates, opts)

	// 缓存里只存原始的对象 key；预签名链接在每次读取时生成，
	// 缓存 TTL 与签名有效期互不约束
	if isDefaultOptions(opts) {
		ttl := time.Duration(config.Conf.Similar.CacheTTLH) * time.Hour
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		if err := s.similarCache.Set(ctx, listingID, matches, ttl); err != nil {
			log.Warnf("[ListingService] 写入相似缓存失败, listingID: %s, error: %v", listingID, err)
		}
	}

	for i := range matches {
		resolveImage(&matches[i].Listing)
	}

	return matches, nil
}

// isDefaultOptions 判断请求是否使用默认推荐参数（只有默认参数的结果可以进缓存）。
func isDefaultOptions(opts similarity.Options) bool {
	return opts.MaxResults <= 0 &&
		opts.MinScore <= 0 &&
		len(opts.ExcludeIDs) == 0 &&
		!opts.PreferSameDealer &&
		!opts.IncludeScores
}

// resolveImage 将只有对象 key 的图片引用换成可访问的预签名 URL。
func resolveImage(l *model.Listing) {
	if !l.Image.Stored() {
		return
	}
	url, err := storage.GetPresignedURL(config.Conf.MinIO.BucketName, l.Image.Key, imageURLExpiry)
	if err != nil {
		log.Warnf("[ListingService] 生成图片链接失败, listingID: %s, key: %s, error: %v", l.ListingID, l.Image.Key, err)
		return
	}
	l.Image.URL = url
}
