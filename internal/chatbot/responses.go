package chatbot

import "autohub-go/internal/model"

// 各意图对应的固定文案。无随机、无状态，相同意图永远得到相同应答。
var responseTexts = map[Intent]string{
	IntentQuickLinks: "Here are some quick links to get you going:\n" +
		"• Browse cars — tell me what you're looking for\n" +
		"• Car reviews and articles\n" +
		"• Contact us on WhatsApp\n" +
		"• Leave feedback about the website",
	IntentWhatsApp:     "You can reach our team directly on WhatsApp — tap the link below and we'll take it from there.",
	IntentFeedback:     "We'd love to hear what you think! I'll take you to the feedback form.",
	IntentShowMore:     "Great, let me pull up more results for you.",
	IntentRefine:       "No problem. Tell me the make, body type or budget you have in mind and I'll look again.",
	IntentGreeting:     "Hi there! I'm the AutoHub assistant. I can help you find cars, read reviews, or get in touch with us. What are you looking for?",
	IntentThanks:       "You're welcome! Let me know if there's anything else I can help with.",
	IntentCarSearch:    "Let me search our inventory for you…",
	IntentReviewSearch: "Let me find some reviews and articles for you…",
	IntentFallback: "I can help you with a few things:\n" +
		"• Finding cars — try \"show me SUVs under R300k\"\n" +
		"• Car reviews — try \"RAV4 reviews\"\n" +
		"• Type \"menu\" for quick links\n" +
		"• Type \"whatsapp\" to contact us",
}

// respond 按意图生成基础应答；需要动作的意图在这里挂上固定动作。
func (c *Classifier) respond(intent Intent) *Response {
	resp := &Response{Intent: intent, Text: responseTexts[intent]}
	switch intent {
	case IntentWhatsApp:
		resp.Action = &model.Action{Type: model.ActionOpenExternal, URL: c.whatsAppURL}
	case IntentFeedback:
		resp.Action = &model.Action{Type: model.ActionNavigate, Path: c.feedbackPath}
	}
	return resp
}
