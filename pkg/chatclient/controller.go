// Package chatclient 实现聊天室的 Go 客户端：连接状态机、消息去重日志
// 与手动重连。传输层只向外发射类型化事件，状态由消费方自行持有。
package chatclient

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mgit-community-go/pkg/apperr"
)

// State 是连接状态机的状态。
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateOpen         State = "open"
)

// EventKind 是传输层向消费方发射的事件类型。
type EventKind string

const (
	EventConnected EventKind = "connected"
	EventMessage   EventKind = "message"
	EventError     EventKind = "error"
	EventClosed    EventKind = "closed"
)

// Event 是单一派发点上的类型化事件。
type Event struct {
	Kind    EventKind
	Message *Message
	Err     error
}

// Message 是客户端本地日志里的一条聊天消息。
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type inboundEnvelope struct {
	Type    string   `json:"type"`
	Message *Message `json:"message"`
	Error   *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

type outboundEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

// Controller 管理一条到聊天室的 WebSocket 连接。
// 断开后绝不自动重试，恢复只能由显式的 Reconnect 触发。
type Controller struct {
	endpoint string

	mu      sync.Mutex
	state   State
	connErr bool
	closed  bool
	conn    *websocket.Conn

	log  []Message
	seen map[string]struct{}

	events chan Event
}

// New 创建一个指向给定端点的 Controller，初始状态为 disconnected。
func New(endpoint string) *Controller {
	return &Controller{
		endpoint: endpoint,
		state:    StateDisconnected,
		seen:     make(map[string]struct{}),
		events:   make(chan Event, 64),
	}
}

// Connect 建立连接：进入 connecting，拨号成功后进入 open 并清除错误标志。
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return apperr.New(apperr.TransportClosed, "客户端已关闭")
	}
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.endpoint, nil)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return apperr.New(apperr.TransportClosed, "客户端已关闭")
	}
	if err != nil {
		c.state = StateDisconnected
		c.connErr = true
		c.mu.Unlock()
		c.emit(Event{Kind: EventError, Err: apperr.Wrap(apperr.TransportClosed, "连接失败", err)})
		return apperr.Wrap(apperr.TransportClosed, "连接失败", err)
	}
	c.conn = conn
	c.state = StateOpen
	c.connErr = false
	c.mu.Unlock()

	c.emit(Event{Kind: EventConnected})
	go c.readLoop(conn)
	return nil
}

// Send 向聊天室发送一条消息。
// 仅在 open 状态且内容去空白后非空时允许；传输不可用时不会静默丢弃，
// 而是置位错误标志并返回 TransportClosed，由调用方走重连路径。
func (c *Controller) Send(content, sender string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return apperr.New(apperr.ValidationFailed, "消息内容不能为空")
	}

	c.mu.Lock()
	if c.closed || c.state != StateOpen || c.conn == nil {
		c.connErr = true
		c.mu.Unlock()
		return apperr.New(apperr.TransportClosed, "连接未就绪")
	}
	conn := c.conn
	c.mu.Unlock()

	payload, err := json.Marshal(outboundEvent{Type: "new_message", Content: content, Sender: sender})
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.transitionDisconnected(conn)
		return apperr.Wrap(apperr.TransportClosed, "发送失败", err)
	}
	return nil
}

// Reconnect 显式重连：先幂等关闭现有连接，再重新 Connect。
func (c *Controller) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return apperr.New(apperr.TransportClosed, "客户端已关闭")
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.state = StateDisconnected
	c.mu.Unlock()

	return c.Connect(ctx)
}

// Close 终止控制器：关闭传输并停止一切后续状态迁移与事件派发。
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.state = StateDisconnected
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
}

// Events 返回类型化事件通道；消费不及时会丢弃事件通知，本地日志不受影响。
func (c *Controller) Events() <-chan Event {
	return c.events
}

// State 返回当前连接状态。
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ConnError 返回连接错误标志，用于驱动"请重连"的提示条。
func (c *Controller) ConnError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connErr
}

// Log 返回按到达顺序排列的去重消息日志快照。
func (c *Controller) Log() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.log))
	copy(out, c.log)
	return out
}

// readLoop 消费入站帧直到连接断开。关停后不再派发任何事件。
func (c *Controller) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.transitionDisconnected(conn)
			return
		}

		var env inboundEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		switch env.Type {
		case "new_message":
			if env.Message == nil {
				continue
			}
			if c.ingest(*env.Message) {
				c.emit(Event{Kind: EventMessage, Message: env.Message})
			}
		case "error":
			kind := apperr.PersistenceUnavailable
			message := "服务端处理失败"
			if env.Error != nil {
				kind = apperr.Kind(env.Error.Kind)
				message = env.Error.Message
			}
			c.emit(Event{Kind: EventError, Err: apperr.New(kind, message)})
		}
	}
}

// ingest 把消息并入本地日志，按标识去重；重复消息返回 false。
func (c *Controller) ingest(message Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if _, ok := c.seen[message.ID]; ok {
		return false
	}
	c.seen[message.ID] = struct{}{}
	c.log = append(c.log, message)
	return true
}

// transitionDisconnected 统一处理传输断开：置位错误标志并派发 closed 事件。
// 只对当前活跃连接生效，Close 之后静默。
func (c *Controller) transitionDisconnected(conn *websocket.Conn) {
	c.mu.Lock()
	if c.closed || (c.conn != nil && c.conn != conn) {
		// 关停中，或该连接已被更新的重连取代
		c.mu.Unlock()
		return
	}
	_ = conn.Close()
	c.conn = nil
	c.state = StateDisconnected
	c.connErr = true
	c.mu.Unlock()

	c.emit(Event{Kind: EventClosed})
}

// emit 非阻塞地派发一个事件，关停后丢弃。
func (c *Controller) emit(event Event) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
