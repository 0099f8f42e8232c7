package devtools

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/navstate/pkg/events"
	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/plugin"
)

// MessageType identifies the kind of event broadcast to devtools
// clients.
type MessageType string

const (
	MessageTransitionStart   MessageType = "transitionStart"
	MessageTransitionSuccess MessageType = "transitionSuccess"
	MessageTransitionError   MessageType = "transitionError"
	MessageTransitionCancel  MessageType = "transitionCancel"
)

// Message is broadcast to every connected devtools client as JSON.
type Message struct {
	Type MessageType `json:"type"`
	From string      `json:"from,omitempty"`
	To   string      `json:"to,omitempty"`
	Err  string      `json:"error,omitempty"`
}

// Broadcaster manages WebSocket connections for the devtools event
// stream and is itself the plugin.Instance returned by Factory.
type Broadcaster struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	unsubs   []func()
}

// NewBroadcaster returns an empty Broadcaster. Origin checking is left
// permissive, matching this codebase's other local-development
// WebSocket endpoints; callers exposing devtools beyond localhost
// should wrap HandleWebSocket with their own origin check.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades req and registers the connection to receive
// the event stream until it disconnects.
func (b *Broadcaster) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := b.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	b.mu.Lock()
	b.clients[conn] = true
	b.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.mu.Lock()
	delete(b.clients, conn)
	b.mu.Unlock()
	conn.Close()
}

// ClientCount reports how many devtools clients are connected.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close unsubscribes from the event bus and drops every connection.
func (b *Broadcaster) Close() error {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.mu.Lock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
	b.mu.Unlock()
	return nil
}

func (b *Broadcaster) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	b.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(b.clients))
	for conn := range b.clients {
		clients = append(clients, conn)
	}
	b.mu.RUnlock()

	for _, conn := range clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			b.mu.Lock()
			delete(b.clients, conn)
			b.mu.Unlock()
			conn.Close()
		}
	}
}

// Factory builds the devtools plugin, wiring its Broadcaster to the
// bus's four transition topics.
func Factory() plugin.Factory {
	return func(bus *events.Bus, deps guard.Deps) (plugin.Instance, error) {
		b := NewBroadcaster()

		subscribe := func(topic events.Topic, msgType MessageType) error {
			unsub, err := bus.On(topic, func(payload any) {
				msg := Message{Type: msgType}
				if pl, ok := payload.(*events.Payload); ok {
					msg.From = pl.FromName
					msg.To = pl.ToName
					if pl.Err != nil {
						msg.Err = pl.Err.Error()
					}
				}
				b.broadcast(msg)
			})
			if err != nil {
				return err
			}
			b.unsubs = append(b.unsubs, unsub)
			return nil
		}

		if err := subscribe(events.TransitionStart, MessageTransitionStart); err != nil {
			return nil, err
		}
		if err := subscribe(events.TransitionSuccess, MessageTransitionSuccess); err != nil {
			return nil, err
		}
		if err := subscribe(events.TransitionError, MessageTransitionError); err != nil {
			return nil, err
		}
		if err := subscribe(events.TransitionCancel, MessageTransitionCancel); err != nil {
			return nil, err
		}

		return b, nil
	}
}
