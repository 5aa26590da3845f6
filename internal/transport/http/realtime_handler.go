package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saarock/sopy-ecommerce/internal/service"
)

// RealtimeHandler is the transport boundary for live sessions: the socket
// gateway reports connects and disconnects here so the registry can route
// push events. Disconnects carry the session id, not the principal, so a
// stale disconnect cannot evict a newer session.
type RealtimeHandler struct {
	registry service.SessionRegistry
}

func NewRealtimeHandler(registry service.SessionRegistry) *RealtimeHandler {
	return &RealtimeHandler{registry: registry}
}

// POST /v1/realtime/connect
func (h *RealtimeHandler) Connect(c *gin.Context) {
	var in struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.registry.Register(principalID(c), in.SessionID)
	c.Status(http.StatusNoContent)
}

// POST /v1/realtime/disconnect
func (h *RealtimeHandler) Disconnect(c *gin.Context) {
	var in struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.registry.Unregister(in.SessionID)
	c.Status(http.StatusNoContent)
}
