package hub

import (
	"sync"

	"mgit-community-go/pkg/log"
)

// Hub 是进程级的连接注册表：单一聊天室，成员在连接建立时加入、
// 断开时移除。注册、注销与广播都由 Run 循环串行处理。
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub 创建一个空的连接注册表。
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run 驱动注册表的事件循环，应在独立的 goroutine 中运行。
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Debugf("chat client registered: %s", client.ID)

		case client := <-h.unregister:
			h.removeClient(client)

		case data := <-h.broadcast:
			h.fanOut(data)

		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// fanOut 把一帧数据投递给当前所有在线连接。
// 单个连接投递失败（队列满）只会剔除该连接，不影响其余成员。
func (h *Hub) fanOut(data []byte) {
	h.mu.RLock()
	var slow []*Client
	for _, client := range h.clients {
		if !client.Deliver(data) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		log.Warnf("chat client too slow, dropping: %s", client.ID)
		h.removeClient(client)
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.mu.Unlock()
	log.Debugf("chat client unregistered: %s", client.ID)
}

// Register 把连接加入注册表，对同一 Client 幂等。
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister 把连接移出注册表，连接关闭或出错时调用。
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast 把一帧数据排入广播队列，由 Run 循环扇出给全部成员。
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// SendTo 只向单个成员投递一帧数据，用于给发送方回执错误。
// 在成员资格检查的读锁内投递，保证不会写入已关闭的队列。
func (h *Hub) SendTo(client *Client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[client.ID]; !ok {
		return false
	}
	return client.Deliver(data)
}

// ClientCount 返回当前在线连接数。
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown 停止事件循环并关闭所有连接的出站队列。
func (h *Hub) Shutdown() {
	close(h.done)
}
