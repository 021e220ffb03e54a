package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mgit-community-go/internal/hub"
	"mgit-community-go/internal/model"
)

// fakeMessageRepo 是内存版的 ChatMessageRepository。
type fakeMessageRepo struct {
	messages  []model.ChatMessage
	createErr error
	lastLimit int
}

func (r *fakeMessageRepo) Create(message *model.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	if message.ID == "" {
		message.ID = "msg-1"
	}
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) FindRecent(limit int) ([]model.ChatMessage, error) {
	r.lastLimit = limit
	if limit > len(r.messages) {
		limit = len(r.messages)
	}
	return r.messages[len(r.messages)-limit:], nil
}

func newChatFixture(t *testing.T) (*fakeMessageRepo, *hub.Hub, ChatService) {
	t.Helper()
	repo := &fakeMessageRepo{}
	registry := hub.NewHub()
	go registry.Run()
	t.Cleanup(registry.Shutdown)
	return repo, registry, NewChatService(repo, registry, 300)
}

func joinChat(t *testing.T, registry *hub.Hub) *hub.Client {
	t.Helper()
	client := hub.NewClient(registry, nil, 8)
	before := registry.ClientCount()
	registry.Register(client)
	require.Eventually(t, func() bool {
		return registry.ClientCount() == before+1
	}, time.Second, 5*time.Millisecond)
	return client
}

func receive(t *testing.T, client *hub.Client) []byte {
	t.Helper()
	select {
	case data := <-client.Send:
		return data
	case <-time.After(time.Second):
		t.Fatal("等待投递超时")
		return nil
	}
}

func TestChatService_BroadcastToAllClients(t *testing.T) {
	repo, registry, svc := newChatFixture(t)
	sender := joinChat(t, registry)
	other := joinChat(t, registry)

	raw := []byte(`{"type":"new_message","content":"hello","sender":"Fox42"}`)
	svc.HandleInbound(context.Background(), sender, raw)

	// 发送方自己也在广播范围内
	for _, client := range []*hub.Client{sender, other} {
		var env MessageEnvelope
		require.NoError(t, json.Unmarshal(receive(t, client), &env))
		assert.Equal(t, EventNewMessage, env.Type)
		require.NotNil(t, env.Message)
		assert.Equal(t, "hello", env.Message.Content)
		assert.Equal(t, "Fox42", env.Message.Sender)
		assert.NotEmpty(t, env.Message.ID)
	}

	require.Len(t, repo.messages, 1)
}

func TestChatService_DefaultSender(t *testing.T) {
	repo, registry, svc := newChatFixture(t)
	sender := joinChat(t, registry)

	svc.HandleInbound(context.Background(), sender, []byte(`{"type":"new_message","content":"hi","sender":"  "}`))

	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(receive(t, sender), &env))
	assert.Equal(t, "Guest", env.Message.Sender)
	assert.Equal(t, "Guest", repo.messages[0].Sender)
}

func TestChatService_EmptyContentAckToSenderOnly(t *testing.T) {
	repo, registry, svc := newChatFixture(t)
	sender := joinChat(t, registry)
	other := joinChat(t, registry)

	svc.HandleInbound(context.Background(), sender, []byte(`{"type":"new_message","content":"   "}`))

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(receive(t, sender), &env))
	assert.Equal(t, "error", env.Type)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Kind)

	// 其他成员毫无感知，也没有消息被落库
	assert.Empty(t, other.Send)
	assert.Empty(t, repo.messages)
}

func TestChatService_PersistFailureAckToSenderOnly(t *testing.T) {
	repo, registry, svc := newChatFixture(t)
	repo.createErr = errors.New("mysql down")
	sender := joinChat(t, registry)
	other := joinChat(t, registry)

	svc.HandleInbound(context.Background(), sender, []byte(`{"type":"new_message","content":"hello"}`))

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(receive(t, sender), &env))
	assert.Equal(t, "error", env.Type)
	assert.Equal(t, "PERSISTENCE_UNAVAILABLE", env.Error.Kind)
	assert.Empty(t, other.Send)
}

func TestChatService_DropsMalformedPayload(t *testing.T) {
	repo, registry, svc := newChatFixture(t)
	sender := joinChat(t, registry)

	svc.HandleInbound(context.Background(), sender, []byte(`{not json`))
	svc.HandleInbound(context.Background(), sender, []byte(`{"type":"typing","content":"x"}`))

	// 连接保持打开，但什么都不会发生
	assert.Empty(t, sender.Send)
	assert.Empty(t, repo.messages)
}

func TestChatService_RecentMessagesLimitClamp(t *testing.T) {
	repo, _, svc := newChatFixture(t)

	_, err := svc.RecentMessages(0)
	require.NoError(t, err)
	assert.Equal(t, 300, repo.lastLimit)

	_, err = svc.RecentMessages(1000)
	require.NoError(t, err)
	assert.Equal(t, 300, repo.lastLimit)

	_, err = svc.RecentMessages(50)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)
}
