package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"autohub-go/internal/service"
	"autohub-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// inboundMessage 是前端通过 WebSocket 发来的一条消息。
// 纯文本帧也接受，按 text 字段处理。
type inboundMessage struct {
	Text string `json:"text"`
}

// outboundMessage 是回发给前端的一条机器人消息。
type outboundMessage struct {
	*service.BotReply
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// ChatHandler 负责处理 WebSocket 聊天连接。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Handle 处理一个传入的 WebSocket 连接，逐条读取消息并回发机器人应答。
func (h *ChatHandler) Handle(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "sessionId is required", "data": nil})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立, session: %s", sessionID)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			break
		}

		text := string(raw)
		// JSON 帧取 text 字段，纯文本帧原样使用
		if len(raw) > 0 && raw[0] == '{' {
			var in inboundMessage
			if err := json.Unmarshal(raw, &in); err == nil && in.Text != "" {
				text = in.Text
			}
		}
		log.Infof("收到 WebSocket 消息, session: %s, text: %s", sessionID, text)

		reply, err := h.chatService.HandleMessage(c.Request.Context(), sessionID, text)
		if err != nil {
			log.Errorf("处理聊天消息失败, session: %s, error: %v", sessionID, err)
			reply = &service.BotReply{Text: "Something went wrong on our side. Please try again later."}
		}

		out := outboundMessage{
			BotReply:  reply,
			Type:      "bot",
			Timestamp: time.Now().UnixMilli(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			log.Errorf("序列化应答失败: %v", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Warnf("向 WebSocket 写入消息失败: %v", err)
			break
		}
	}

	log.Infof("WebSocket 连接已关闭, session: %s", sessionID)
}
