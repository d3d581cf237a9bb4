package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsStreamInterval = 2 * time.Second
	wsWriteTimeout   = 5 * time.Second
	wsReadLimit      = 16 * 1024
)

// The panel serves its own LAN; cross origin pages are expected to talk to
// it directly.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebSocket streams the status snapshot until the peer goes away.
func (s *Server) handleWebSocket(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)

	// Read pump: we ignore inbound payloads but need the reads to notice a
	// closed peer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsStreamInterval)
	defer ticker.Stop()

	for {
		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			return
		}
		if err := conn.WriteJSON(s.deps.Status()); err != nil {
			slog.Debug("Websocket peer gone", slog.String("error", err.Error()))

			return
		}

		select {
		case <-done:
			return
		case <-ctx.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
