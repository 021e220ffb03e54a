package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Shutdown)
	return h
}

func register(t *testing.T, h *Hub, sendBuffer int) *Client {
	t.Helper()
	client := NewClient(h, nil, sendBuffer)
	before := h.ClientCount()
	h.Register(client)
	require.Eventually(t, func() bool {
		return h.ClientCount() == before+1
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := startHub(t)
	client := register(t, h, 4)
	assert.Equal(t, 1, h.ClientCount())

	h.Unregister(client)
	require.Eventually(t, func() bool {
		return h.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	// 注销后出站队列被关闭
	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h := startHub(t)
	a := register(t, h, 4)
	b := register(t, h, 4)

	h.Broadcast([]byte("hello"))

	for _, client := range []*Client{a, b} {
		select {
		case data := <-client.Send:
			assert.Equal(t, "hello", string(data))
		case <-time.After(time.Second):
			t.Fatalf("客户端 %s 未收到广播", client.ID)
		}
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := startHub(t)
	slow := register(t, h, 1)
	fast := register(t, h, 4)

	// 慢客户端队列容量 1 且无人消费，第二帧投递失败即被剔除。
	h.Broadcast([]byte("one"))
	h.Broadcast([]byte("two"))

	require.Eventually(t, func() bool {
		return h.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	// 快客户端两帧都收到
	assert.Equal(t, "one", string(<-fast.Send))
	assert.Equal(t, "two", string(<-fast.Send))

	// 慢客户端保留已缓冲的第一帧，随后队列被关闭
	assert.Equal(t, "one", string(<-slow.Send))
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHub_SendTo(t *testing.T) {
	h := startHub(t)
	member := register(t, h, 4)
	outsider := NewClient(h, nil, 4)

	assert.True(t, h.SendTo(member, []byte("receipt")))
	select {
	case data := <-member.Send:
		assert.Equal(t, "receipt", string(data))
	case <-time.After(time.Second):
		t.Fatal("成员未收到定向投递")
	}

	// 非成员投递直接拒绝，不会写入其队列
	assert.False(t, h.SendTo(outsider, []byte("receipt")))
	assert.Empty(t, outsider.Send)
}

func TestHub_Shutdown(t *testing.T) {
	h := NewHub()
	go h.Run()
	client := NewClient(h, nil, 4)
	h.Register(client)
	require.Eventually(t, func() bool {
		return h.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	h.Shutdown()
	require.Eventually(t, func() bool {
		return h.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)

	// 关停后的操作不阻塞
	h.Broadcast([]byte("late"))
	h.Register(NewClient(h, nil, 4))
}

func TestClient_DeliverBackpressure(t *testing.T) {
	client := NewClient(nil, nil, 1)
	assert.True(t, client.Deliver([]byte("one")))
	assert.False(t, client.Deliver([]byte("two")))

	<-client.Send
	assert.True(t, client.Deliver([]byte("three")))
}
