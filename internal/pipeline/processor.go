// Package pipeline 实现了车源同步任务的异步处理逻辑。
// 每条任务对应一次车源的新增/更新或删除：同步 ES 索引，并重算相似推荐缓存。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autohub-go/internal/config"
	"autohub-go/internal/model"
	"autohub-go/internal/repository"
	"autohub-go/internal/service"
	"autohub-go/internal/similarity"
	"autohub-go/pkg/es"
	"autohub-go/pkg/log"
	"autohub-go/pkg/tasks"

	"gorm.io/gorm"
)

// Processor 消费车源同步任务，串联 MySQL、ES 与推荐缓存。
type Processor struct {
	listingRepo  repository.ListingRepository
	similarCache repository.SimilarCacheRepository
	indexName    string
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(
	listingRepo repository.ListingRepository,
	similarCache repository.SimilarCacheRepository,
	indexName string,
) *Processor {
	return &Processor{
		listingRepo:  listingRepo,
		similarCache: similarCache,
		indexName:    indexName,
	}
}

// Process 处理一条车源同步任务。返回 error 时由消费端决定重试或放弃。
func (p *Processor) Process(ctx context.Context, task tasks.ListingSyncTask) error {
	log.Infof("[Pipeline] 开始处理任务, action: %s, listingID: %s", task.Action, task.ListingID)

	switch task.Action {
	case tasks.ActionUpsert:
		return p.processUpsert(ctx, task.ListingID)
	case tasks.ActionDelete:
		return p.processDelete(ctx, task.ListingID)
	default:
		// 未知动作无法通过重试恢复，记录后直接吞掉
		log.Errorf("[Pipeline] 未知的任务动作: %s, listingID: %s", task.Action, task.ListingID)
		return nil
	}
}

// processUpsert 把一条车源写入 ES 索引并刷新推荐缓存。
func (p *Processor) processUpsert(ctx context.Context, listingID string) error {
	listing, err := p.listingRepo.FindByListingID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 记录已被删除，索引无需更新
			log.Warnf("[Pipeline] 车源记录不存在, 跳过索引, listingID: %s", listingID)
			return nil
		}
		return fmt.Errorf("查询车源记录失败: %w", err)
	}

	if err := es.IndexListing(ctx, p.indexName, toEsListing(*listing)); err != nil {
		return fmt.Errorf("写入 ES 索引失败: %w", err)
	}

	if err := p.refreshSimilarCache(ctx); err != nil {
		return fmt.Errorf("刷新推荐缓存失败: %w", err)
	}

	log.Infof("[Pipeline] 任务处理成功, listingID: %s", listingID)
	return nil
}

// processDelete 删除车源的 ES 文档与推荐缓存，再重算其余车源的推荐。
func (p *Processor) processDelete(ctx context.Context, listingID string) error {
	if err := es.DeleteListing(ctx, p.indexName, listingID); err != nil {
		return fmt.Errorf("删除 ES 文档失败: %w", err)
	}
	if err := p.similarCache.Invalidate(ctx, listingID); err != nil {
		return fmt.Errorf("删除推荐缓存失败: %w", err)
	}
	if err := p.refreshSimilarCache(ctx); err != nil {
		return fmt.Errorf("刷新推荐缓存失败: %w", err)
	}

	log.Infof("[Pipeline] 删除任务处理成功, listingID: %s", listingID)
	return nil
}

// refreshSimilarCache 对全量车源重算相似推荐并批量写入 Redis。
// 任何一条车源的变化都会影响其他车源的推荐结果，所以这里整体重算。
func (p *Processor) refreshSimilarCache(ctx context.Context) error {
	all, err := p.listingRepo.FindAll()
	if err != nil {
		return err
	}

	results := similarity.BatchRank(all, similarity.BatchOptions{
		MaxResults:    config.Conf.Similar.MaxResults,
		MinScore:      config.Conf.Similar.MinScore,
		EnableCaching: true,
	})

	ttl := time.Duration(config.Conf.Similar.CacheTTLH) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return p.similarCache.SetBatch(ctx, results, ttl)
}

// toEsListing 把数据库实体转换为 ES 文档。
func toEsListing(l model.Listing) model.EsListing {
	return model.EsListing{
		ListingID:    l.ListingID,
		Category:     l.Category,
		Price:        l.Price,
		Make:         l.Make,
		Model:        l.Model,
		Year:         l.Year,
		FuelType:     l.FuelType,
		Transmission: l.Transmission,
		BodyType:     l.BodyType,
		Color:        l.Color,
		Mileage:      l.Mileage,
		City:         l.City,
		Condition:    l.Condition,
		SellerType:   l.SellerType,
		BusinessName: l.BusinessName,
		Title:        service.BuildTitle(l),
	}
}
