// Package reviews provides a client for the external car-review search service.
package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"autohub-go/internal/config"
	"autohub-go/pkg/log"
	"autohub-go/pkg/remote"
)

// Review 是评测服务返回的单篇文章。
type Review struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Snippet     string `json:"snippet"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// Client defines the interface for the review search client.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Review, error)
}

type httpClient struct {
	cfg    config.ReviewsConfig
	client *http.Client
}

// NewClient 创建一个新的评测检索客户端。
func NewClient(cfg config.ReviewsConfig) Client {
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResponse struct {
	Success bool     `json:"success"`
	Data    []Review `json:"data"`
	Message string   `json:"message"`
}

// Search 调用评测服务检索文章，失败时按配置做有界重试。
func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]Review, error) {
	endpoint := fmt.Sprintf("%s/api/reviews/search?q=%s&limit=%s",
		c.cfg.BaseURL, url.QueryEscape(query), strconv.Itoa(limit))

	var result searchResponse
	retryOpts := remote.DefaultRetry
	if c.cfg.MaxRetries > 0 {
		retryOpts.MaxAttempts = c.cfg.MaxRetries
	}

	err := remote.Do(ctx, retryOpts, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return &remote.Error{Kind: remote.KindClient, Err: err}
		}
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return remote.FromTransport(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return remote.FromStatus(resp.StatusCode, fmt.Errorf("review api returned %s", resp.Status))
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return &remote.Error{Kind: remote.KindServer, Err: fmt.Errorf("failed to decode review response: %w", err)}
		}
		return nil
	})
	if err != nil {
		log.Errorf("[ReviewsClient] 调用评测检索服务失败, query: '%s', error: %v", query, err)
		return nil, err
	}

	if !result.Success {
		return nil, &remote.Error{Kind: remote.KindServer, Err: fmt.Errorf("review api reported failure: %s", result.Message)}
	}
	return result.Data, nil
}
