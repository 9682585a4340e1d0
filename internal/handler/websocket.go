package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colabri-doc/internal/metrics"
	"github.com/iliyamo/colabri-doc/internal/model"
	"github.com/iliyamo/colabri-doc/internal/ws"
)

// WebSocketHandler upgrades GET /ws and runs the echo session on the
// request goroutine until the connection ends.
type WebSocketHandler struct {
	upgrader        websocket.Upgrader
	maxMessageBytes int64
	metrics         *metrics.Metrics
}

// NewWebSocketHandler builds the handler. allowedOrigins follows
// ws.OriginChecker; maxMessageBytes bounds a single inbound frame.
func NewWebSocketHandler(allowedOrigins []string, maxMessageBytes int64, m *metrics.Metrics) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     ws.OriginChecker(allowedOrigins),
			Error:           writeUpgradeError,
		},
		maxMessageBytes: maxMessageBytes,
		metrics:         m,
	}
}

func (h *WebSocketHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the error response
		slog.Warn("WebSocket upgrade failed", "remote", c.RealIP(), "error", err)
		return nil
	}
	conn.SetReadLimit(h.maxMessageBytes)

	session := ws.NewSession(conn, h.metrics)
	if err := session.Run(); err != nil {
		slog.Info("WebSocket session ended with error", "connection_id", session.ID(), "error", err)
	}
	return nil
}

func writeUpgradeError(w http.ResponseWriter, _ *http.Request, status int, reason error) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.Header().Set("Sec-Websocket-Version", "13")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.NewError(status, reason.Error()))
}
