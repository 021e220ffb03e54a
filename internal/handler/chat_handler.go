package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"mgit-community-go/internal/config"
	"mgit-community-go/internal/hub"
	"mgit-community-go/internal/service"
	"mgit-community-go/pkg/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// ChatHandler 负责聊天历史接口和 WebSocket 连接的生命周期。
type ChatHandler struct {
	chatService service.ChatService
	registry    *hub.Hub
	cfg         config.ChatConfig
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService, registry *hub.Hub, cfg config.ChatConfig) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		registry:    registry,
		cfg:         cfg,
	}
}

// ListMessages 返回最近的聊天历史，按创建时间升序。
func (h *ChatHandler) ListMessages(c *gin.Context) {
	limit := h.cfg.HistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	messages, err := h.chatService.RecentMessages(limit)
	if err != nil {
		log.Error("读取聊天历史失败", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Handle 处理一个传入的 WebSocket 连接：升级、注册、逐帧交给广播引擎，
// 连接关闭或出错时从注册表移除并停止后续投递。
func (h *ChatHandler) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}

	client := hub.NewClient(h.registry, conn, h.cfg.SendBuffer)
	h.registry.Register(client)
	log.Infof("WebSocket 连接已建立: %s", client.ID)

	writeWait := time.Duration(h.cfg.WriteWaitSecond) * time.Second
	pongWait := time.Duration(h.cfg.PongWaitSecond) * time.Second
	go client.WritePump(writeWait, pongWait)

	client.ConfigureRead(pongWait)
	for {
		data, err := client.ReadMessage()
		if err != nil {
			log.Infof("WebSocket 连接断开: %s, %v", client.ID, err)
			break
		}
		h.chatService.HandleInbound(c.Request.Context(), client, data)
	}

	h.registry.Unregister(client)
}
