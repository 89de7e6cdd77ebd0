package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/service"
	"github.com/flastal/flastal-backend/internal/ws"
)

// WSHandler upgrades notification stream connections. Browsers cannot
// set an Authorization header on WebSocket upgrades, so the access
// token travels as a query parameter.
type WSHandler struct {
	hub      *ws.Hub
	tokens   *service.TokenManager
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle GET /ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token is required"})
		return
	}

	actor, err := h.tokens.Parse(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	kind := models.AccountKindUser
	if actor.Role == models.RoleFlorist {
		kind = models.AccountKindFlorist
	}

	client := ws.NewClient(conn, h.hub, kind, actor.ID)
	h.hub.Register(client)
	client.Run(c.Request.Context())
}
