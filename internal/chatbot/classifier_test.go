package chatbot

import (
	"testing"
	"time"

	"autohub-go/internal/config"
	"autohub-go/internal/model"
)

func newTestClassifier() *Classifier {
	return NewClassifier(config.ChatbotConfig{
		WhatsAppURL:  "https://wa.me/27123456789",
		FeedbackPath: "/feedback",
	})
}

func botMsg(text string) model.ChatMessage {
	return model.ChatMessage{Type: model.MessageTypeBot, Text: text, Timestamp: time.Now()}
}

func userMsg(text string) model.ChatMessage {
	return model.ChatMessage{Type: model.MessageTypeUser, Text: text, Timestamp: time.Now()}
}

func TestClassify_IntentRouting(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name       string
		text       string
		wantIntent Intent
		wantAction string // 空字符串表示不应有动作
	}{
		{"quick links keyword", "show me the quick links please", IntentQuickLinks, ""},
		{"menu keyword", "MENU", IntentQuickLinks, ""},
		{"whatsapp", "how do I reach you on WhatsApp?", IntentWhatsApp, model.ActionOpenExternal},
		{"contact us", "I want to contact us page", IntentWhatsApp, model.ActionOpenExternal},
		{"feedback", "I have some feedback", IntentFeedback, model.ActionNavigate},
		{"review website beats review search", "I want to review website experience", IntentFeedback, model.ActionNavigate},
		{"greeting", "hello there", IntentGreeting, ""},
		{"short hi is a greeting", "hi!", IntentGreeting, ""},
		{"vehicle does not trigger greeting", "any vehicle below 200k?", IntentFallback, ""},
		{"thanks", "thanks a lot", IntentThanks, ""},
		{"car search needs verb and noun", "I am looking for a family car", IntentCarSearch, model.ActionSearchCars},
		{"vehicle word alone is not a search", "nice vehicle", IntentFallback, ""},
		{"review search", "any reviews of the RAV4?", IntentReviewSearch, model.ActionSearchReviews},
		{"gibberish falls back", "asdfghjkl", IntentFallback, ""},
		{"empty input falls back", "   ", IntentFallback, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, nil)
			if got == nil {
				t.Fatal("Classify 返回了 nil")
			}
			if got.Intent != tt.wantIntent {
				t.Errorf("intent = %s, want %s", got.Intent, tt.wantIntent)
			}
			if tt.wantAction == "" {
				if got.Action != nil {
					t.Errorf("不应携带动作, got %+v", got.Action)
				}
			} else {
				if got.Action == nil || got.Action.Type != tt.wantAction {
					t.Errorf("action = %+v, want type %s", got.Action, tt.wantAction)
				}
			}
			if got.Text == "" {
				t.Error("应答文案不应为空")
			}
		})
	}
}

func TestClassify_GreetingHasNoAction(t *testing.T) {
	c := newTestClassifier()
	got := c.Classify("hello there", nil)
	if got.Intent != IntentGreeting {
		t.Fatalf("intent = %s, want %s", got.Intent, IntentGreeting)
	}
	if got.Action != nil {
		t.Errorf("问候应答不应携带动作, got %+v", got.Action)
	}
}

func TestClassify_ContextualFollowUp(t *testing.T) {
	c := newTestClassifier()

	carHistory := []model.ChatMessage{
		userMsg("show me toyota suvs"),
		botMsg("I found 5 cars that match"),
	}
	reviewHistory := []model.ChatMessage{
		userMsg("rav4 reviews"),
		botMsg("I found 3 reviews you might like"),
	}

	t.Run("affirmative continues car search", func(t *testing.T) {
		got := c.Classify("show me more", carHistory)
		if got.Intent != IntentShowMore {
			t.Fatalf("intent = %s, want %s", got.Intent, IntentShowMore)
		}
		if got.Action == nil || got.Action.Type != model.ActionSearchCars {
			t.Fatalf("action = %+v, want searchCars", got.Action)
		}
		if got.Action.Query != "show me toyota suvs" {
			t.Errorf("query = %q, 应复用最近一条用户消息", got.Action.Query)
		}
	})

	t.Run("affirmative continues review search", func(t *testing.T) {
		got := c.Classify("yes please", reviewHistory)
		if got.Action == nil || got.Action.Type != model.ActionSearchReviews {
			t.Fatalf("action = %+v, want searchReviews", got.Action)
		}
	})

	t.Run("negative asks to refine", func(t *testing.T) {
		got := c.Classify("no, something different", carHistory)
		if got.Intent != IntentRefine {
			t.Errorf("intent = %s, want %s", got.Intent, IntentRefine)
		}
		if got.Action != nil {
			t.Errorf("换别的不应直接触发检索, got %+v", got.Action)
		}
	})

	t.Run("no prior search means no follow-up", func(t *testing.T) {
		got := c.Classify("show me more", nil)
		if got.Intent == IntentShowMore {
			t.Error("没有检索历史时不应识别为追问")
		}
	})

	t.Run("search outside the window is forgotten", func(t *testing.T) {
		old := []model.ChatMessage{
			botMsg("I found 5 cars that match"),
			userMsg("a"), botMsg("b"), userMsg("c"), botMsg("d"),
		}
		got := c.Classify("yes", old)
		if got.Intent == IntentShowMore {
			t.Error("窗口之外的检索结果不应再触发追问")
		}
	})
}

func TestRespond_DeterministicCannedText(t *testing.T) {
	c := newTestClassifier()
	first := c.Classify("hello", nil)
	second := c.Classify("hello", nil)
	if first.Text != second.Text {
		t.Error("相同输入应得到完全相同的文案")
	}

	wa := c.Classify("whatsapp", nil)
	if wa.Action == nil || wa.Action.URL != "https://wa.me/27123456789" {
		t.Errorf("WhatsApp 动作应使用配置的链接, got %+v", wa.Action)
	}
	fb := c.Classify("feedback", nil)
	if fb.Action == nil || fb.Action.Path != "/feedback" {
		t.Errorf("反馈动作应跳转配置的路径, got %+v", fb.Action)
	}
}
