package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/outdoortrails/trails-hub-backend/internal/middleware"
	ws "github.com/outdoortrails/trails-hub-backend/internal/websocket"
)

// SyncController upgrades dashboard sessions so they receive change events
// for the signed-in user's categories, gear and trips.
type SyncController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewSyncController(hub *ws.Hub, allowedOrigins []string) *SyncController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &SyncController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// WebSocketHandler
// GET /api/v1/sync/ws?token=...
// The token arrives as a query parameter and is never logged.
func (ctrl *SyncController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, ws.NewConn(conn), userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}
