// Package hub 维护聊天室的在线连接集合并负责消息扇出。
package hub

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client 封装一条 WebSocket 连接及其出站队列。
// 所有写操作都经由 Send 通道在 WritePump 中串行执行，避免并发写同一连接。
type Client struct {
	ID   string
	Send chan []byte

	hub  *Hub
	conn *websocket.Conn
}

// NewClient 为一条已升级的连接创建 Client。
func NewClient(h *Hub, conn *websocket.Conn, sendBuffer int) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Send: make(chan []byte, sendBuffer),
		hub:  h,
		conn: conn,
	}
}

// Deliver 尝试把一帧数据放入该连接的出站队列。
// 队列已满说明客户端消费过慢，直接判定投递失败，由调用方决定是否剔除。
func (c *Client) Deliver(data []byte) bool {
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// WritePump 串行消费出站队列并定期发送 ping 保活。
// Send 被关闭（连接被注销）或写失败时退出并关闭底层连接。
func (c *Client) WritePump(writeWait, pongWait time.Duration) {
	pingPeriod := pongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ConfigureRead 设置心跳超时与 pong 回调，在读循环开始前调用一次。
func (c *Client) ConfigureRead(pongWait time.Duration) {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

// ReadMessage 读取一帧入站数据。
func (c *Client) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}
