package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/services"
)

type DecisionHandler struct {
	log         *logger.Logger
	decisionSvc services.DecisionLogService
}

func NewDecisionHandler(log *logger.Logger, decisionSvc services.DecisionLogService) *DecisionHandler {
	return &DecisionHandler{
		log:         log.With("handler", "DecisionHandler"),
		decisionSvc: decisionSvc,
	}
}

// GET /api/decisions?session_id=...&limit=...&offset=...
// Audit history, newest first. Without session_id it lists the calling
// user's decisions across sessions.
func (h *DecisionHandler) List(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	if raw := c.Query("session_id"); raw != "" {
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_session_id", err)
			return
		}
		entries, err := h.decisionSvc.ListBySession(c.Request.Context(), sessionID, limit, offset)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "list_failed", err)
			return
		}
		RespondOK(c, gin.H{"decisions": entries})
		return
	}

	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("session_id or user identity required"))
		return
	}
	entries, err := h.decisionSvc.ListByUser(c.Request.Context(), rd.UserID, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"decisions": entries})
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
