package handlers

import (
	"net/http"
	"os"

	"comic_platform/internal/logger"
	"comic_platform/internal/service"
	"comic_platform/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades the connection and subscribes it to the caller's progression
// events. Browsers cannot set headers on websocket upgrades, so the JWT
// arrives as a query parameter.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		client := ws.NewClient(userID, conn, hub)
		go client.Run()
	}
}
