package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"ordinance-go/internal/controller"
	"ordinance-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// writeWait 是单条消息允许的最长写入时间
	writeWait = 10 * time.Second
	// sendBuffer 是每个连接可以积压的状态条数，超过即断开
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	// 只服务本机页面
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type statusClient struct {
	conn *websocket.Conn
	send chan []byte
}

// StatusHub 通过 WebSocket 把每次状态变更推送给所有打开的页面。
// Publish 只往各连接的发送队列里放消息，不在调用方 goroutine 中写网络。
type StatusHub struct {
	mu      sync.Mutex
	clients map[*statusClient]struct{}
	last    []byte
}

// NewStatusHub 创建一个新的 StatusHub。
func NewStatusHub() *StatusHub {
	return &StatusHub{clients: make(map[*statusClient]struct{})}
}

// Publish 实现 controller.Observer，广播最新状态。队列已满的连接会被断开。
func (h *StatusHub) Publish(s controller.State) {
	payload, err := json.Marshal(NewStateView(s))
	if err != nil {
		log.Error("StatusHub: 序列化状态失败", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = payload
	for cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			log.Warnf("StatusHub: 连接积压过多，断开")
			h.removeLocked(cl)
		}
	}
}

// Handle 升级为 WebSocket 连接，先发送最近一次状态，然后持续推送。
func (h *StatusHub) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}

	cl := &statusClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.last != nil {
		cl.send <- h.last
	}
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	go writePump(cl)

	// 页面不会发送消息，读循环只用于发现断开
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	h.removeLocked(cl)
	h.mu.Unlock()
}

// removeLocked 注销连接并关闭其发送队列，调用方需持有 h.mu。
func (h *StatusHub) removeLocked(cl *statusClient) {
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
}

// writePump 是连接唯一的写入者。队列关闭或写入失败时关闭连接，读循环随之退出。
func writePump(cl *statusClient) {
	defer cl.conn.Close()
	for payload := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warnf("StatusHub: 推送失败，关闭连接: %v", err)
			return
		}
	}
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Clients 返回当前连接数。
func (h *StatusHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
