// Package ws pushes order lifecycle events to WebSocket subscribers.
//
// The feed is one-way: clients connect and receive JSON events, they never
// send application data. A single Hub is created at boot and published to
// from the event bus:
//
//	feed := ws.NewHub()
//	event.Listen("order.placed", func(payload interface{}) {
//	    feed.Publish(payload)
//	})
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shashiranjanraj/vastra/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	// Subscribers never send application data; anything beyond control
	// frames this size is a misbehaving client.
	readLimit = 1024

	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Hub tracks the connected subscribers of one event feed.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewHub creates an empty hub. It needs no background goroutine; publishing
// and subscribing are safe from any goroutine.
func NewHub() *Hub {
	return &Hub{subs: map[*subscriber]struct{}{}}
}

// Publish marshals v to JSON and queues it to every subscriber. A subscriber
// whose send buffer is full is dropped rather than allowed to stall the feed.
func (h *Hub) Publish(v interface{}) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var stalled []*subscriber

	h.mu.RLock()
	for s := range h.subs {
		select {
		case s.send <- msg:
		default:
			stalled = append(stalled, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range stalled {
		h.drop(s)
		logger.Warn("ws: dropped slow subscriber")
	}
	return nil
}

// ClientCount returns the number of currently connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Serve upgrades the HTTP connection and streams the feed to it until the
// client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}

	s := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	total := len(h.subs)
	h.mu.Unlock()
	logger.Info("ws: subscriber connected", "total", total)

	go s.writeLoop()
	s.readLoop() // blocks until disconnect
	h.drop(s)
}

func (h *Hub) drop(s *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[s]
	if ok {
		delete(h.subs, s)
	}
	total := len(h.subs)
	h.mu.Unlock()

	if ok {
		close(s.send)
		logger.Info("ws: subscriber disconnected", "total", total)
	}
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// readLoop consumes control frames and detects disconnects. Any application
// data from the client is read and discarded.
func (s *subscriber) readLoop() {
	defer s.conn.Close()

	s.conn.SetReadLimit(readLimit)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *subscriber) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
