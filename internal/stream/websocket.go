package stream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// ServeWebSocket upgrades the request and streams a subscribed client's
// messages as JSON text frames, starting with initial. Watchers are
// read-only: anything they send is discarded.
func ServeWebSocket(w http.ResponseWriter, r *http.Request, client *Client, initial Message, logger *slog.Logger) {
	first, err := encode(initial)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		// Accept has already written the error response
		logger.Warn("websocket upgrade failed",
			slog.String("game_id", string(client.hub.gameID)),
			slog.String("error", err.Error()))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	// CloseRead keeps control frames flowing and cancels ctx when the peer goes away
	ctx := conn.CloseRead(r.Context())

	client.admit(first)
	if err := writeFrame(ctx, conn, first); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.send:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "stream closed")
				return
			}
			if !client.admit(msg) {
				continue
			}
			if err := writeFrame(ctx, conn, msg); err != nil {
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, msg envelope) error {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg.data)
}
