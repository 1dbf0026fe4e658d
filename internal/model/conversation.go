// Package model 包含了应用的数据模型定义。
package model

import "time"

// 消息发送方类型。
const (
	MessageTypeUser = "user"
	MessageTypeBot  = "bot"
)

// 机器人回复可携带的动作类型。
const (
	ActionNavigate      = "navigate"       // 跳转站内路径
	ActionOpenExternal  = "open_external"  // 打开外部链接
	ActionSearchCars    = "search_cars"    // 触发车源检索
	ActionSearchReviews = "search_reviews" // 触发评测文章检索
)

// Action 是机器人回复附带的后续动作。
type Action struct {
	Type  string `json:"type"`
	Path  string `json:"path,omitempty"`
	URL   string `json:"url,omitempty"`
	Query string `json:"query,omitempty"`
}

// ChatMessage 代表存储在 Redis 中的单条对话消息。
type ChatMessage struct {
	Type      string    `json:"type"` // "user" 或 "bot"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Action    *Action   `json:"action,omitempty"`
}
