// Package feedback provides a client for the external feedback-submission service.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"autohub-go/internal/config"
	"autohub-go/pkg/log"
	"autohub-go/pkg/remote"
)

// Submission 是一条用户反馈。
type Submission struct {
	Category string `json:"category"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Email    string `json:"email,omitempty"`
}

// Client defines the interface for the feedback submission client.
type Client interface {
	Submit(ctx context.Context, submission Submission) error
}

type httpClient struct {
	cfg    config.FeedbackConfig
	client *http.Client
}

// NewClient 创建一个新的反馈提交客户端。
func NewClient(cfg config.FeedbackConfig) Client {
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit 将反馈提交给外部服务，失败时按配置做有界重试。
func (c *httpClient) Submit(ctx context.Context, submission Submission) error {
	body, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback submission: %w", err)
	}

	retryOpts := remote.DefaultRetry
	if c.cfg.MaxRetries > 0 {
		retryOpts.MaxAttempts = c.cfg.MaxRetries
	}

	var result submitResponse
	err = remote.Do(ctx, retryOpts, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/api/feedback", bytes.NewReader(body))
		if err != nil {
			return &remote.Error{Kind: remote.KindClient, Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return remote.FromTransport(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return remote.FromStatus(resp.StatusCode, fmt.Errorf("feedback api returned %s", resp.Status))
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return &remote.Error{Kind: remote.KindServer, Err: fmt.Errorf("failed to decode feedback response: %w", err)}
		}
		return nil
	})
	if err != nil {
		log.Errorf("[FeedbackClient] 提交反馈失败, category: '%s', error: %v", submission.Category, err)
		return err
	}

	if !result.Success {
		return &remote.Error{Kind: remote.KindServer, Err: fmt.Errorf("feedback api reported failure: %s", result.Message)}
	}
	return nil
}
