package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewSSEHandler(log *logger.Logger, hub *sse.Hub) *SSEHandler {
	return &SSEHandler{
		log: log.With("handler", "SSEHandler"),
		hub: hub,
	}
}

// GET /sse/decisions
// Streams the operator-wide decision feed, plus the caller's own session
// stream when session identity is present.
func (h *SSEHandler) StreamDecisions(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var userID uuid.UUID
	if rd != nil {
		userID = rd.UserID
	}

	client := h.hub.NewClient(userID)
	h.hub.AddChannel(client, sse.DecisionsChannel)
	if rd != nil && rd.SessionID != uuid.Nil {
		h.hub.AddChannel(client, sse.SessionChannel(rd.SessionID))
	}
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
