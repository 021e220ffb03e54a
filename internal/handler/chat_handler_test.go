package handler

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mgit-community-go/internal/config"
	"mgit-community-go/internal/hub"
	"mgit-community-go/internal/model"
	"mgit-community-go/internal/service"
	"mgit-community-go/pkg/chatclient"
)

// fakeMessageRepo 是内存版的聊天消息存储。
type fakeMessageRepo struct {
	messages []model.ChatMessage
	next     int
}

func (r *fakeMessageRepo) Create(message *model.ChatMessage) error {
	r.next++
	message.ID = fmt.Sprintf("msg-%d", r.next)
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) FindRecent(limit int) ([]model.ChatMessage, error) {
	if limit > len(r.messages) {
		limit = len(r.messages)
	}
	return r.messages[len(r.messages)-limit:], nil
}

func startChatServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := hub.NewHub()
	go registry.Run()
	t.Cleanup(registry.Shutdown)

	cfg := config.ChatConfig{
		HistoryLimit:    300,
		SendBuffer:      16,
		WriteWaitSecond: 5,
		PongWaitSecond:  30,
	}
	chatService := service.NewChatService(&fakeMessageRepo{}, registry, cfg.HistoryLimit)
	chatHandler := NewChatHandler(chatService, registry, cfg)

	r := gin.New()
	r.GET("/ws/chat", chatHandler.Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func chatEndpoint(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
}

func waitClientEvent(t *testing.T, c *chatclient.Controller, kind chatclient.EventKind) chatclient.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-c.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("等待 %s 事件超时", kind)
		}
	}
}

// 端到端：一个客户端发送，两个客户端（含发送方）都在本地日志里
// 看到同一条带相同 ID 的消息。
func TestChatRoundTrip(t *testing.T) {
	srv := startChatServer(t)

	alice := chatclient.New(chatEndpoint(srv))
	defer alice.Close()
	bob := chatclient.New(chatEndpoint(srv))
	defer bob.Close()

	require.NoError(t, alice.Connect(context.Background()))
	waitClientEvent(t, alice, chatclient.EventConnected)
	require.NoError(t, bob.Connect(context.Background()))
	waitClientEvent(t, bob, chatclient.EventConnected)

	require.NoError(t, alice.Send("hello room", "Fox42"))

	evA := waitClientEvent(t, alice, chatclient.EventMessage)
	evB := waitClientEvent(t, bob, chatclient.EventMessage)
	require.NotNil(t, evA.Message)
	require.NotNil(t, evB.Message)
	assert.Equal(t, evA.Message.ID, evB.Message.ID)
	assert.Equal(t, "hello room", evB.Message.Content)
	assert.Equal(t, "Fox42", evB.Message.Sender)

	require.Len(t, alice.Log(), 1)
	require.Len(t, bob.Log(), 1)
}

// 空消息只有发送方收到失败回执，其他成员毫无感知。
func TestChatEmptyMessageAck(t *testing.T) {
	srv := startChatServer(t)

	bob := chatclient.New(chatEndpoint(srv))
	defer bob.Close()
	require.NoError(t, bob.Connect(context.Background()))
	waitClientEvent(t, bob, chatclient.EventConnected)

	// chatclient 本地就会拦截空消息，这里用原始连接绕过它
	raw, _, err := websocket.DefaultDialer.Dial(chatEndpoint(srv), nil)
	require.NoError(t, err)
	defer raw.Close()
	require.NoError(t, raw.WriteJSON(map[string]string{"type": "new_message", "content": "   "}))

	var ack struct {
		Type  string `json:"type"`
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, raw.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, raw.ReadJSON(&ack))
	assert.Equal(t, "error", ack.Type)
	assert.Equal(t, "VALIDATION_FAILED", ack.Error.Kind)

	// bob 什么都没收到
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, bob.Log())
}

// 重连后继续收发，重复广播不会在本地日志里出现两次。
func TestChatReconnectKeepsDedup(t *testing.T) {
	srv := startChatServer(t)

	alice := chatclient.New(chatEndpoint(srv))
	defer alice.Close()

	require.NoError(t, alice.Connect(context.Background()))
	waitClientEvent(t, alice, chatclient.EventConnected)

	require.NoError(t, alice.Send("first", "Fox42"))
	waitClientEvent(t, alice, chatclient.EventMessage)

	require.NoError(t, alice.Reconnect(context.Background()))
	waitClientEvent(t, alice, chatclient.EventConnected)

	require.NoError(t, alice.Send("second", "Fox42"))
	waitClientEvent(t, alice, chatclient.EventMessage)

	log := alice.Log()
	require.Len(t, log, 2)
	assert.Equal(t, "first", log[0].Content)
	assert.Equal(t, "second", log[1].Content)
}
