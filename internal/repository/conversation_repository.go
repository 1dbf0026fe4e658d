// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"autohub-go/internal/model"
)

// 对话历史的保留策略：只留最近 maxHistoryMessages 条，7 天过期。
const (
	maxHistoryMessages = 50
	conversationTTL    = 7 * 24 * time.Hour
)

// ConversationRepository 定义了对话历史记录的操作接口。
// 会话以前端生成的 sessionID 为键，仅追加，不支持改写单条消息。
type ConversationRepository interface {
	GetConversationHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	UpdateConversationHistory(ctx context.Context, sessionID string, messages []model.ChatMessage) error
	AppendMessages(ctx context.Context, sessionID string, messages ...model.ChatMessage) error
}

type redisConversationRepository struct {
	redisClient *redis.Client
}

// NewConversationRepository 创建一个新的 ConversationRepository 实例。
func NewConversationRepository(redisClient *redis.Client) ConversationRepository {
	return &redisConversationRepository{redisClient: redisClient}
}

func conversationKey(sessionID string) string {
	return fmt.Sprintf("chat:session:%s", sessionID)
}

// GetConversationHistory 从 Redis 获取对话历史记录，不存在时返回空列表。
func (r *redisConversationRepository) GetConversationHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	jsonData, err := r.redisClient.Get(ctx, conversationKey(sessionID)).Result()
	if err == redis.Nil {
		return []model.ChatMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}
	var messages []model.ChatMessage
	if err := json.Unmarshal([]byte(jsonData), &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation history: %w", err)
	}
	return messages, nil
}

// UpdateConversationHistory 在 Redis 中覆盖写入对话历史记录。
func (r *redisConversationRepository) UpdateConversationHistory(ctx context.Context, sessionID string, messages []model.ChatMessage) error {
	// 超出上限时裁掉最旧的
	if len(messages) > maxHistoryMessages {
		messages = messages[len(messages)-maxHistoryMessages:]
	}
	jsonData, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation history: %w", err)
	}
	if err := r.redisClient.Set(ctx, conversationKey(sessionID), jsonData, conversationTTL).Err(); err != nil {
		return fmt.Errorf("failed to set conversation history: %w", err)
	}
	return nil
}

// AppendMessages 读取当前历史、追加消息后写回。
func (r *redisConversationRepository) AppendMessages(ctx context.Context, sessionID string, messages ...model.ChatMessage) error {
	history, err := r.GetConversationHistory(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, messages...)
	return r.UpdateConversationHistory(ctx, sessionID, history)
}
