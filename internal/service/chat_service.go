// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"encoding/json"
	"strings"

	"mgit-community-go/internal/hub"
	"mgit-community-go/internal/model"
	"mgit-community-go/internal/repository"
	"mgit-community-go/pkg/apperr"
	"mgit-community-go/pkg/kafka"
	"mgit-community-go/pkg/log"
)

// EventNewMessage 是聊天传输层唯一的业务事件类型。
const EventNewMessage = "new_message"

// InboundEvent 是客户端发来的聊天事件。
type InboundEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

// MessageEnvelope 是广播给所有连接的出站信封。
type MessageEnvelope struct {
	Type    string             `json:"type"`
	Message *model.ChatMessage `json:"message"`
}

// ErrorEnvelope 是只回发给消息发送方的失败回执。
type ErrorEnvelope struct {
	Type  string       `json:"type"`
	Error ErrorPayload `json:"error"`
}

// ErrorPayload 携带错误类别和给用户看的描述。
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ChatService 是聊天广播引擎：接收单个连接的入站事件，持久化为
// 权威记录后扇出给注册表内的全部连接（包括发送方自己）。
type ChatService interface {
	HandleInbound(ctx context.Context, client *hub.Client, raw []byte)
	RecentMessages(limit int) ([]model.ChatMessage, error)
}

type chatService struct {
	messageRepo  repository.ChatMessageRepository
	registry     *hub.Hub
	historyLimit int
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(messageRepo repository.ChatMessageRepository, registry *hub.Hub, historyLimit int) ChatService {
	return &chatService{
		messageRepo:  messageRepo,
		registry:     registry,
		historyLimit: historyLimit,
	}
}

// HandleInbound 处理一帧入站数据。
// 无法解析的负载记日志后丢弃，连接保持打开；持久化失败只给发送方回执，
// 不影响其他连接；持久化成功后按注册表当前成员广播，尽力而为。
func (s *chatService) HandleInbound(ctx context.Context, client *hub.Client, raw []byte) {
	var event InboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Warnf("丢弃无法解析的聊天负载: %v", err)
		return
	}
	if event.Type != EventNewMessage {
		log.Warnf("丢弃未知类型的聊天事件: %q", event.Type)
		return
	}

	content := strings.TrimSpace(event.Content)
	if content == "" {
		s.sendError(client, apperr.New(apperr.ValidationFailed, "消息内容不能为空"))
		return
	}
	sender := strings.TrimSpace(event.Sender)
	if sender == "" {
		sender = "Guest"
	}

	message := &model.ChatMessage{Content: content, Sender: sender}
	if err := s.messageRepo.Create(message); err != nil {
		log.Error("聊天消息持久化失败", err)
		s.sendError(client, apperr.Wrap(apperr.PersistenceUnavailable, "消息保存失败，请重试", err))
		return
	}

	// 归档是尽力而为的旁路，失败不影响广播
	if kafka.Enabled() {
		go func(m *model.ChatMessage) {
			if err := kafka.ArchiveChatMessage(context.Background(), m); err != nil {
				log.Warnf("聊天消息归档失败: id=%s, err=%v", m.ID, err)
			}
		}(message)
	}

	data, err := json.Marshal(MessageEnvelope{Type: EventNewMessage, Message: message})
	if err != nil {
		log.Error("序列化聊天信封失败", err)
		return
	}
	s.registry.Broadcast(data)
}

// RecentMessages 返回最近的聊天历史，按创建时间升序。
func (s *chatService) RecentMessages(limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	messages, err := s.messageRepo.FindRecent(limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceUnavailable, "读取聊天历史失败", err)
	}
	return messages, nil
}

// sendError 把失败回执投递给发送方本人，失败方不在线时静默放弃。
func (s *chatService) sendError(client *hub.Client, appErr *apperr.Error) {
	payload := ErrorEnvelope{
		Type: "error",
		Error: ErrorPayload{
			Kind:    string(appErr.Kind),
			Message: appErr.Message,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.registry.SendTo(client, data)
}
