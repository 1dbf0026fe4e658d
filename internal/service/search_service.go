// Package service 包含了应用的业务逻辑层。
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"

	"autohub-go/internal/config"
	"autohub-go/internal/model"
	"autohub-go/internal/repository"
	"autohub-go/pkg/log"
)

// SearchService 接口定义了车源检索操作。
// 这是聊天机器人 search_cars 动作背后的协作服务。
type SearchService interface {
	SearchListings(ctx context.Context, query string, topK int) ([]model.Listing, error)
}

type searchService struct {
	esClient    *elasticsearch.Client
	listingRepo repository.ListingRepository
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(esClient *elasticsearch.Client, listingRepo repository.ListingRepository) SearchService {
	return &searchService{
		esClient:    esClient,
		listingRepo: listingRepo,
	}
}

// SearchListings 在车源索引上做全文检索，再回 MySQL 取权威记录。
func (s *searchService) SearchListings(ctx context.Context, query string, topK int) ([]model.Listing, error) {
	log.Infof("[SearchService] 开始车源检索, query: '%s', topK: %d", query, topK)
	if topK <= 0 {
		topK = 10
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"title": map[string]interface{}{
					"query":    query,
					"operator": "or",
				},
			},
		},
		"size": topK,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(config.Conf.Elasticsearch.IndexName),
		s.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		log.Errorf("[SearchService] 向 Elasticsearch 发送检索请求失败: %v", err)
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		log.Errorf("[SearchService] Elasticsearch 返回错误, status: %s, body: %s", res.Status(), string(bodyBytes))
		return nil, fmt.Errorf("elasticsearch returned an error: %s", res.String())
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.EsListing `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	if len(esResponse.Hits.Hits) == 0 {
		log.Infof("[SearchService] Elasticsearch 返回 0 条命中结果, query: '%s'", query)
		return []model.Listing{}, nil
	}

	// 批量回库取权威记录，按命中顺序返回
	listingIDs := make([]string, 0, len(esResponse.Hits.Hits))
	for _, hit := range esResponse.Hits.Hits {
		listingIDs = append(listingIDs, hit.Source.ListingID)
	}
	found, err := s.listingRepo.FindBatchByListingIDs(listingIDs)
	if err != nil {
		return nil, fmt.Errorf("批量查询车源信息失败: %w", err)
	}
	byID := make(map[string]model.Listing, len(found))
	for _, l := range found {
		byID[l.ListingID] = l
	}

	results := make([]model.Listing, 0, len(listingIDs))
	for _, id := range listingIDs {
		if l, ok := byID[id]; ok {
			results = append(results, l)
		} else {
			// 索引里有但库里没有：索引滞后于删除，跳过
			log.Warnf("[SearchService] 索引命中但数据库缺失, listingID: %s", id)
		}
	}

	log.Infof("[SearchService] 车源检索完成, query: '%s', 返回 %d 条结果", query, len(results))
	return results, nil
}

// BuildTitle 拼接用于全文检索的标题文本。
func BuildTitle(l model.Listing) string {
	parts := []interface{}{l.Year, l.Make, l.Model, l.BodyType, l.Transmission, l.FuelType, l.Color, l.City}
	var title bytes.Buffer
	for _, p := range parts {
		switch v := p.(type) {
		case int:
			if v != 0 {
				fmt.Fprintf(&title, "%d ", v)
			}
		case string:
			if v != "" {
				title.WriteString(v)
				title.WriteByte(' ')
			}
		}
	}
	return string(bytes.TrimSpace(title.Bytes()))
}
