package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"autohub-go/internal/chatbot"
	"autohub-go/internal/config"
	"autohub-go/internal/model"
	"autohub-go/pkg/remote"
	"autohub-go/pkg/reviews"
)

// mockSearchService 是 SearchService 的内存实现。
type mockSearchService struct {
	listings []model.Listing
	err      error
	lastQ    string
}

func (m *mockSearchService) SearchListings(_ context.Context, query string, _ int) ([]model.Listing, error) {
	m.lastQ = query
	return m.listings, m.err
}

// mockReviewsClient 是 reviews.Client 的内存实现。
type mockReviewsClient struct {
	reviews []reviews.Review
	err     error
}

func (m *mockReviewsClient) Search(_ context.Context, _ string, _ int) ([]reviews.Review, error) {
	return m.reviews, m.err
}

// mockConversationRepo 把对话历史存在内存里。
type mockConversationRepo struct {
	histories map[string][]model.ChatMessage
	getErr    error
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{histories: make(map[string][]model.ChatMessage)}
}

func (m *mockConversationRepo) GetConversationHistory(_ context.Context, sessionID string) ([]model.ChatMessage, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.histories[sessionID], nil
}

func (m *mockConversationRepo) UpdateConversationHistory(_ context.Context, sessionID string, messages []model.ChatMessage) error {
	m.histories[sessionID] = messages
	return nil
}

func (m *mockConversationRepo) AppendMessages(_ context.Context, sessionID string, messages ...model.ChatMessage) error {
	m.histories[sessionID] = append(m.histories[sessionID], messages...)
	return nil
}

func newTestChatService(search *mockSearchService, rc *mockReviewsClient, repo *mockConversationRepo) ChatService {
	classifier := chatbot.NewClassifier(config.ChatbotConfig{})
	return NewChatService(classifier, search, rc, repo, 5)
}

func TestHandleMessage_GreetingPersistsBothSides(t *testing.T) {
	repo := newMockConversationRepo()
	svc := newTestChatService(&mockSearchService{}, &mockReviewsClient{}, repo)

	reply, err := svc.HandleMessage(context.Background(), "s1", "hello there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Action != nil {
		t.Errorf("问候不应携带动作, got %+v", reply.Action)
	}
	if len(reply.Listings) != 0 {
		t.Error("问候不应返回车源")
	}

	saved := repo.histories["s1"]
	if len(saved) != 2 {
		t.Fatalf("应保存用户与机器人各一条消息, got %d", len(saved))
	}
	if saved[0].Type != model.MessageTypeUser || saved[1].Type != model.MessageTypeBot {
		t.Errorf("消息顺序错误: %s, %s", saved[0].Type, saved[1].Type)
	}
}

func TestHandleMessage_CarSearchReturnsListings(t *testing.T) {
	search := &mockSearchService{listings: []model.Listing{
		{ListingID: "L1", Make: "Toyota", Model: "RAV4"},
		{ListingID: "L2", Make: "Toyota", Model: "Corolla Cross"},
	}}
	svc := newTestChatService(search, &mockReviewsClient{}, newMockConversationRepo())

	reply, err := svc.HandleMessage(context.Background(), "s1", "show me toyota suvs, any car will do")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reply.Listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(reply.Listings))
	}
	if !strings.Contains(reply.Text, "found 2 cars") {
		t.Errorf("文案应报告命中数量, got %q", reply.Text)
	}
	if reply.Action == nil || reply.Action.Type != model.ActionSearchCars {
		t.Errorf("应答应携带 searchCars 动作, got %+v", reply.Action)
	}
	if search.lastQ == "" {
		t.Error("检索服务应收到查询词")
	}
}

func TestHandleMessage_FollowUpUsesHistory(t *testing.T) {
	repo := newMockConversationRepo()
	search := &mockSearchService{listings: []model.Listing{{ListingID: "L1"}}}
	svc := newTestChatService(search, &mockReviewsClient{}, repo)

	// 第一轮建立检索上下文
	if _, err := svc.HandleMessage(context.Background(), "s1", "find me a family car"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 第二轮的追问应复用上一轮的查询词
	reply, err := svc.HandleMessage(context.Background(), "s1", "show me more")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Action == nil || reply.Action.Type != model.ActionSearchCars {
		t.Fatalf("追问应触发 searchCars, got %+v", reply.Action)
	}
	if search.lastQ != "find me a family car" {
		t.Errorf("追问应复用历史查询词, got %q", search.lastQ)
	}
}

func TestHandleMessage_CollaboratorFailureDegrades(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{"rate limited", remote.FromStatus(http.StatusTooManyRequests, errors.New("slow down")), "busy"},
		{"server error", remote.FromStatus(http.StatusInternalServerError, errors.New("boom")), "our side"},
		{"network error", remote.FromTransport(errors.New("connection refused")), "trouble reaching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := &mockSearchService{err: tt.err}
			svc := newTestChatService(search, &mockReviewsClient{}, newMockConversationRepo())

			reply, err := svc.HandleMessage(context.Background(), "s1", "find me a car")
			if err != nil {
				t.Fatalf("协作服务失败不应向上传播: %v", err)
			}
			if !strings.Contains(reply.Text, tt.wantHint) {
				t.Errorf("降级文案 = %q, 应包含 %q", reply.Text, tt.wantHint)
			}
			if reply.Action != nil {
				t.Errorf("降级应答不应再携带动作, got %+v", reply.Action)
			}
		})
	}
}

func TestHandleMessage_EmptySearchResult(t *testing.T) {
	svc := newTestChatService(&mockSearchService{}, &mockReviewsClient{}, newMockConversationRepo())

	reply, err := svc.HandleMessage(context.Background(), "s1", "find me a hydrogen car")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reply.Listings) != 0 {
		t.Error("无命中时不应返回车源")
	}
	if !strings.Contains(reply.Text, "couldn't find") {
		t.Errorf("无命中文案不符, got %q", reply.Text)
	}
}

func TestHandleMessage_ReviewSearch(t *testing.T) {
	rc := &mockReviewsClient{reviews: []reviews.Review{{Title: "RAV4 long-term review"}}}
	svc := newTestChatService(&mockSearchService{}, rc, newMockConversationRepo())

	reply, err := svc.HandleMessage(context.Background(), "s1", "any reviews of the rav4?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reply.Reviews) != 1 {
		t.Fatalf("reviews = %d, want 1", len(reply.Reviews))
	}
	if !strings.Contains(reply.Text, "found 1 reviews") {
		t.Errorf("文案应报告命中数量, got %q", reply.Text)
	}
}

func TestHandleMessage_HistoryReadFailureStillAnswers(t *testing.T) {
	repo := newMockConversationRepo()
	repo.getErr = errors.New("redis down")
	svc := newTestChatService(&mockSearchService{}, &mockReviewsClient{}, repo)

	reply, err := svc.HandleMessage(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("历史读取失败不应阻断应答: %v", err)
	}
	if reply.Text == "" {
		t.Error("应答文案不应为空")
	}
}
