// Package chatbot 实现了规则式的意图识别与应答生成。
// 没有分词和模糊匹配，全部规则都是忽略大小写的子串包含；
// 规则按固定优先级依次尝试，先命中者生效。
package chatbot

import (
	"strings"

	"autohub-go/internal/config"
	"autohub-go/internal/model"
)

// Intent 是分类出的意图类别。
// IntentShowMore 与 IntentRefine 是对最近一次检索结果的上下文追问：
// 前者继续看更多，后者换别的条件。
type Intent string

const (
	IntentQuickLinks   Intent = "quick_links"
	IntentWhatsApp     Intent = "whatsapp"
	IntentFeedback     Intent = "feedback"
	IntentShowMore     Intent = "show_more"
	IntentRefine       Intent = "refine"
	IntentGreeting     Intent = "greeting"
	IntentThanks       Intent = "thanks"
	IntentCarSearch    Intent = "car_search"
	IntentReviewSearch Intent = "review_search"
	IntentFallback     Intent = "fallback"
)

// Response 是一次分类的结果：意图、应答文案与可选的后续动作。
type Response struct {
	Intent Intent        `json:"intent"`
	Text   string        `json:"text"`
	Action *model.Action `json:"action,omitempty"`
}

// 上下文追问只回看最近这么多条消息。
const contextWindow = 4

// 各规则的关键词集合。
var (
	quickLinkKeywords = []string{"quick links", "menu"}
	whatsAppKeywords  = []string{"whatsapp", "contact us"}
	feedbackKeywords  = []string{"feedback", "review website"}
	greetingKeywords  = []string{"hello", "hey", "good morning", "good afternoon", "good evening", "howzit"}
	thanksKeywords    = []string{"thank", "thanks", "thx", "appreciate"}
	affirmativeCues   = []string{"yes", "show me", "more", "sure", "okay", "please"}
	negativeCues      = []string{"different", "something else", "not really", "other"}
	searchVerbs       = []string{"show", "find", "search", "looking for", "browse", "want", "need", "buy"}
	vehicleWords      = []string{"car", "vehicle", "suv", "sedan", "hatchback", "bakkie"}
	reviewKeywords    = []string{"review", "article", "blog", "news"}
)

// Classifier 持有生成动作所需的外部地址配置。
type Classifier struct {
	whatsAppURL  string
	feedbackPath string
}

// NewClassifier 创建一个新的 Classifier，零值配置回退到默认地址。
func NewClassifier(cfg config.ChatbotConfig) *Classifier {
	whatsAppURL := cfg.WhatsAppURL
	if whatsAppURL == "" {
		whatsAppURL = "https://wa.me/27000000000"
	}
	feedbackPath := cfg.FeedbackPath
	if feedbackPath == "" {
		feedbackPath = "/feedback"
	}
	return &Classifier{whatsAppURL: whatsAppURL, feedbackPath: feedbackPath}
}

// Classify 对一条用户输入做单遍同步分类。
// 优先级固定：快捷菜单 > WhatsApp > 反馈 > 上下文追问 > 问候 > 致谢 >
// 车源检索 > 评测检索 > 兜底。history 只用于上下文追问判断。
func (c *Classifier) Classify(text string, history []model.ChatMessage) *Response {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return c.respond(IntentFallback)
	}

	// 1. 快捷菜单
	if containsAny(lower, quickLinkKeywords) {
		return c.respond(IntentQuickLinks)
	}

	// 2. WhatsApp 联系方式
	if containsAny(lower, whatsAppKeywords) {
		return c.respond(IntentWhatsApp)
	}

	// 3. 网站反馈
	if containsAny(lower, feedbackKeywords) {
		return c.respond(IntentFeedback)
	}

	// 4. 上下文追问：机器人刚刚展示过车源或评测结果
	if resp := c.classifyFollowUp(lower, history); resp != nil {
		return resp
	}

	// 5. 问候（"hi" 按整词匹配，避免命中 vehicle 之类的子串）
	if containsAny(lower, greetingKeywords) || hasWord(lower, "hi") {
		return c.respond(IntentGreeting)
	}

	// 6. 致谢
	if containsAny(lower, thanksKeywords) {
		return c.respond(IntentThanks)
	}

	// 7. 车源检索：检索动词 + 车辆词
	if containsAny(lower, searchVerbs) && containsAny(lower, vehicleWords) {
		resp := c.respond(IntentCarSearch)
		resp.Action = &model.Action{Type: model.ActionSearchCars, Query: strings.TrimSpace(text)}
		return resp
	}

	// 8. 评测文章检索
	if containsAny(lower, reviewKeywords) {
		resp := c.respond(IntentReviewSearch)
		resp.Action = &model.Action{Type: model.ActionSearchReviews, Query: strings.TrimSpace(text)}
		return resp
	}

	// 9. 兜底：列出机器人能做什么
	return c.respond(IntentFallback)
}

// classifyFollowUp 处理对最近一次检索结果的追问。
func (c *Classifier) classifyFollowUp(lower string, history []model.ChatMessage) *Response {
	recent := history
	if len(recent) > contextWindow {
		recent = recent[len(recent)-contextWindow:]
	}

	// 找最近窗口内机器人展示过的检索类型
	var lastSearch string // "cars" 或 "reviews"
	for i := len(recent) - 1; i >= 0; i-- {
		m := recent[i]
		if m.Type != model.MessageTypeBot {
			continue
		}
		botText := strings.ToLower(m.Text)
		if strings.Contains(botText, "found") && containsAny(botText, vehicleWords) {
			lastSearch = "cars"
			break
		}
		if strings.Contains(botText, "found") && containsAny(botText, reviewKeywords) {
			lastSearch = "reviews"
			break
		}
	}
	if lastSearch == "" {
		return nil
	}

	affirmative := containsAny(lower, affirmativeCues)
	negative := hasWord(lower, "no") || containsAny(lower, negativeCues)

	switch {
	case negative:
		// 否定优先：用户想换别的
		return c.respond(IntentRefine)
	case affirmative:
		resp := c.respond(IntentShowMore)
		actionType := model.ActionSearchCars
		if lastSearch == "reviews" {
			actionType = model.ActionSearchReviews
		}
		resp.Action = &model.Action{Type: actionType, Query: lastUserQuery(history)}
		return resp
	default:
		return nil
	}
}

// lastUserQuery 取历史里最近一条用户消息作为继续检索的关键词。
func lastUserQuery(history []model.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Type == model.MessageTypeUser {
			return history[i].Text
		}
	}
	return ""
}

// containsAny 判断文本是否包含任一关键词（子串匹配）。
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// hasWord 按整词判断，用于 "hi"、"no" 这类极易误命中的短词。
func hasWord(text, word string) bool {
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '!' || r == '?' || r == '\'' || r == '"'
	}) {
		if f == word {
			return true
		}
	}
	return false
}
