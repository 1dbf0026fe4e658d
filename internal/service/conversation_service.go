// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"

	"autohub-go/internal/model"
	"autohub-go/internal/repository"
)

// ConversationService 定义了对话历史查询的接口。
type ConversationService interface {
	GetConversationHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
}

type conversationService struct {
	repo repository.ConversationRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

// GetConversationHistory 获取指定会话的完整消息历史。
func (s *conversationService) GetConversationHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	return s.repo.GetConversationHistory(ctx, sessionID)
}
