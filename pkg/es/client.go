// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"autohub-go/internal/config"
	"autohub-go/internal/model"
	"autohub-go/pkg/log"
)

var ESClient *elasticsearch.Client

// InitES 初始化 Elasticsearch 客户端并确保车源索引存在。
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("检查索引 '%s' 是否存在时收到意外的状态码: %d", indexName, res.StatusCode)
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	// 结构化字段用 keyword 做精确过滤，title 用全文检索
	mapping := `{
		"mappings": {
			"properties": {
				"listing_id": { "type": "keyword" },
				"category": { "type": "keyword" },
				"price": { "type": "double" },
				"make": { "type": "keyword" },
				"model": { "type": "keyword" },
				"year": { "type": "integer" },
				"fuel_type": { "type": "keyword" },
				"transmission": { "type": "keyword" },
				"body_type": { "type": "keyword" },
				"color": { "type": "keyword" },
				"mileage": { "type": "double" },
				"city": { "type": "keyword" },
				"condition": { "type": "keyword" },
				"seller_type": { "type": "keyword" },
				"business_name": { "type": "keyword" },
				"title": { "type": "text" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// IndexListing 将单条车源文档索引到 Elasticsearch。
func IndexListing(ctx context.Context, indexName string, doc model.EsListing) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: doc.ListingID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("索引车源到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index listing")
	}
	return nil
}

// DeleteListing 从 Elasticsearch 删除单条车源文档。
func DeleteListing(ctx context.Context, indexName, listingID string) error {
	req := esapi.DeleteRequest{
		Index:      indexName,
		DocumentID: listingID,
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		log.Errorf("从 Elasticsearch 删除车源出错: %s", res.String())
		return errors.New("failed to delete listing")
	}
	return nil
}
