// Package bus publishes pipeline events to an observability hub over a
// websocket. Entirely optional: a nil Bus swallows every publish, and a
// dead connection drops events rather than slowing the pipeline.
package bus

import (
	"encoding/json"
	log "log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one pipeline happening. Kind is one of "segment", "transcript",
// "plan", "dry-run".
type Event struct {
	Kind       string    `json:"kind"`
	At         time.Time `json:"at"`
	Segment    string    `json:"segment,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	Plan       string    `json:"plan,omitempty"`
	Actions    int       `json:"actions,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// redialBackoff is how long Publish waits between reconnect attempts
// while the hub is down; events in that window are dropped immediately.
const redialBackoff = 5 * time.Second

var dialer = &websocket.Dialer{HandshakeTimeout: 5 * time.Second}

type Bus struct {
	url string

	mu       sync.Mutex
	conn     *websocket.Conn
	nextDial time.Time
}

// Dial connects to the hub. The connection is re-established on the next
// publish after a write failure.
func Dial(wsURL string) (*Bus, error) {
	b := &Bus{url: wsURL}
	if err := b.redial(); err != nil {
		return nil, err
	}
	log.Info("Connected to event hub", "url", wsURL)
	return b, nil
}

// Publish sends one event, dropping it on any failure. Safe on a nil Bus.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Warn("Event marshal failed", "kind", ev.Kind, "err", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		if time.Now().Before(b.nextDial) {
			log.Debug("Event hub down, dropping event", "kind", ev.Kind)
			return
		}
		if err := b.redial(); err != nil {
			b.nextDial = time.Now().Add(redialBackoff)
			log.Warn("Event hub unreachable, dropping event", "kind", ev.Kind, "err", err)
			return
		}
	}

	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warn("Event write failed, dropping connection", "kind", ev.Kind, "err", err)
		b.conn.Close()
		b.conn = nil
	}
}

func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
}

func (b *Bus) redial() error {
	conn, _, err := dialer.Dial(b.url, nil)
	if err != nil {
		return err
	}
	b.conn = conn
	return nil
}
