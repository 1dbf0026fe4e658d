// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"time"

	"autohub-go/internal/chatbot"
	"autohub-go/internal/model"
	"autohub-go/internal/repository"
	"autohub-go/pkg/log"
	"autohub-go/pkg/remote"
	"autohub-go/pkg/reviews"
)

// BotReply 是一轮对话中机器人返回给前端的完整应答。
type BotReply struct {
	Text     string           `json:"text"`
	Action   *model.Action    `json:"action,omitempty"`
	Listings []model.Listing  `json:"listings,omitempty"`
	Reviews  []reviews.Review `json:"reviews,omitempty"`
}

// ChatService 定义了聊天操作的接口。
type ChatService interface {
	HandleMessage(ctx context.Context, sessionID, text string) (*BotReply, error)
}

type chatService struct {
	classifier       *chatbot.Classifier
	searchService    SearchService
	reviewsClient    reviews.Client
	conversationRepo repository.ConversationRepository
	maxListings      int
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(
	classifier *chatbot.Classifier,
	searchService SearchService,
	reviewsClient reviews.Client,
	conversationRepo repository.ConversationRepository,
	maxListings int,
) ChatService {
	if maxListings <= 0 {
		maxListings = 5
	}
	return &chatService{
		classifier:       classifier,
		searchService:    searchService,
		reviewsClient:    reviewsClient,
		conversationRepo: conversationRepo,
		maxListings:      maxListings,
	}
}

// HandleMessage 处理一条用户消息：分类、执行动作、持久化对话并生成应答。
// 协作服务故障会降级为兜底文案，不会向上传播错误；只有对话存储故障才返回 error。
func (s *chatService) HandleMessage(ctx context.Context, sessionID, text string) (*BotReply, error) {
	history, err := s.conversationRepo.GetConversationHistory(ctx, sessionID)
	if err != nil {
		log.Errorf("[ChatService] 读取对话历史失败, session: %s, error: %v", sessionID, err)
		history = []model.ChatMessage{}
	}

	resp := s.classifier.Classify(text, history)
	reply := &BotReply{Text: resp.Text, Action: resp.Action}

	// 执行分类出的检索动作
	if resp.Action != nil {
		switch resp.Action.Type {
		case model.ActionSearchCars:
			s.executeCarSearch(ctx, resp.Action.Query, reply)
		case model.ActionSearchReviews:
			s.executeReviewSearch(ctx, resp.Action.Query, reply)
		}
	}

	// 持久化本轮对话。用后台上下文：请求被放弃时也应留痕。
	now := time.Now()
	saveErr := s.conversationRepo.AppendMessages(context.Background(), sessionID,
		model.ChatMessage{Type: model.MessageTypeUser, Text: text, Timestamp: now},
		model.ChatMessage{Type: model.MessageTypeBot, Text: reply.Text, Timestamp: now, Action: reply.Action},
	)
	if saveErr != nil {
		// 只记录，不影响已生成的应答
		log.Errorf("[ChatService] 保存对话历史失败, session: %s, error: %v", sessionID, saveErr)
	}

	return reply, nil
}

// executeCarSearch 调用车源检索协作服务并组装应答文案。
func (s *chatService) executeCarSearch(ctx context.Context, query string, reply *BotReply) {
	listings, err := s.searchService.SearchListings(ctx, query, s.maxListings)
	if err != nil {
		reply.Text = degradedText(err, "car search")
		reply.Action = nil
		return
	}
	if len(listings) == 0 {
		reply.Text = "I couldn't find any cars matching that. Try a different make, body type or budget?"
		return
	}
	reply.Listings = listings
	reply.Text = fmt.Sprintf("I found %d cars that match. Want to see more like these?", len(listings))
}

// executeReviewSearch 调用评测检索协作服务并组装应答文案。
func (s *chatService) executeReviewSearch(ctx context.Context, query string, reply *BotReply) {
	found, err := s.reviewsClient.Search(ctx, query, s.maxListings)
	if err != nil {
		reply.Text = degradedText(err, "review search")
		reply.Action = nil
		return
	}
	if len(found) == 0 {
		reply.Text = "I couldn't find any reviews on that topic. Try naming a specific make or model?"
		return
	}
	reply.Reviews = found
	reply.Text = fmt.Sprintf("I found %d reviews you might like.", len(found))
}

// degradedText 把协作服务错误翻译成面向用户的兜底文案。
func degradedText(err error, what string) string {
	log.Errorf("[ChatService] 协作服务 %s 调用失败: %v", what, err)
	switch remote.KindOf(err) {
	case remote.KindRateLimit:
		return "We're a bit busy right now — please try that again in a moment."
	case remote.KindTimeout, remote.KindNetwork:
		return "I'm having trouble reaching our servers. Please try again shortly."
	default:
		return "Something went wrong on our side. Please try again later."
	}
}
