package stream

import (
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/supertictactoe/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client is one connected watcher, over SSE or WebSocket
type Client struct {
	hub         *Hub
	remoteAddr  string
	send        chan envelope
	connectedAt time.Time

	// highest seq written so far
	seen int
}

// NewClient creates a new client for a hub
func NewClient(hub *Hub, remoteAddr string) *Client {
	return &Client{
		hub:         hub,
		remoteAddr:  remoteAddr,
		send:        make(chan envelope, sendBufferSize),
		connectedAt: time.Now(),
		seen:        -1,
	}
}

// Close detaches the client from its hub
func (c *Client) Close() {
	c.hub.Unregister(c)
}

// admit reports whether a frame is newer than anything already written.
// Frames without a game, such as "deleted", always pass.
func (c *Client) admit(msg envelope) bool {
	if msg.seq < 0 {
		return true
	}
	if msg.seq <= c.seen {
		return false
	}
	c.seen = msg.seq
	return true
}

// Subscribe registers a new client on the game's hub. A hub closed between
// lookup and registration is replaced by a fresh one. Callers subscribe
// before reading the game so no update published in between is lost.
func (m *HubManager) Subscribe(gameID model.GameID, remoteAddr string) *Client {
	for {
		hub := m.GetOrCreateHub(gameID)
		client := NewClient(hub, remoteAddr)
		if hub.Register(client) {
			return client
		}
	}
}

// ServeSSE streams a subscribed client's messages as server-sent events,
// starting with initial. Queued frames no newer than initial are skipped.
func ServeSSE(w http.ResponseWriter, r *http.Request, client *Client, initial Message) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	first, err := encode(initial)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client.admit(first)
	if _, err := w.Write(formatSSEMessage(first.event, string(first.data))); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if !client.admit(msg) {
				continue
			}
			if _, err := w.Write(formatSSEMessage(msg.event, string(msg.data))); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// formatSSEMessage formats an SSE message with event name and data
// Multi-line data is properly formatted with "data: " prefix on each line
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
