package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"blogapi/logger"
	"blogapi/middleware"
	"blogapi/models"
	"blogapi/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketHandler streams blog events to readers. Authentication is
// optional; signed-in clients also receive events addressed to them.
type WebSocketHandler struct {
	hubService *services.HubService
	upgrader   websocket.Upgrader
}

// NewWebSocketHandler accepts connections from allowedOrigins, or from any
// origin when the list is empty.
func NewWebSocketHandler(hubService *services.HubService, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &WebSocketHandler{
		hubService: hubService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

func (wh *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	var userID uint
	if v, ok := c.Get(middleware.UserIDKey); ok {
		userID, _ = v.(uint)
	}

	conn, err := wh.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WarnWithFields("websocket upgrade failed", logger.Fields{
			"error":      err.Error(),
			"request_id": middleware.RequestID(c),
		})
		return
	}

	client := models.NewClient(wh.hubService.GetHub(), conn, userID)

	if !wh.hubService.Register(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}
	go wh.writePump(client)
	go wh.readPump(client)
}

// readPump keeps the connection alive and answers client_connect handshakes.
// Blog events only flow server to client.
func (wh *WebSocketHandler) readPump(client *models.Client) {
	defer func() {
		wh.hubService.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.WarnWithFields("unexpected websocket close", logger.Fields{
					"client_id": client.ID,
					"error":     err.Error(),
				})
			}
			break
		}

		var wsMessage models.WSMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			logger.WarnWithFields("invalid websocket message", logger.Fields{
				"client_id": client.ID,
				"error":     err.Error(),
			})
			continue
		}

		switch wsMessage.Type {
		case "client_connect":
			response, err := json.Marshal(models.WSMessage{
				Type: models.EventClientConnected,
				Data: map[string]string{"client_id": client.ID},
			})
			if err != nil {
				continue
			}
			wh.hubService.BroadcastToClient(client, response)
		default:
			logger.InfoWithFields("unknown websocket message type", logger.Fields{
				"client_id": client.ID,
				"type":      wsMessage.Type,
			})
		}
	}
}

func (wh *WebSocketHandler) writePump(client *models.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := client.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(client.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-client.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
