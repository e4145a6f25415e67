package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/services"
)

type ReviewHandler struct {
	log       *logger.Logger
	reviewSvc services.ReviewService
}

func NewReviewHandler(log *logger.Logger, reviewSvc services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		log:       log.With("handler", "ReviewHandler"),
		reviewSvc: reviewSvc,
	}
}

// GET /api/reviews/due?limit=...
func (h *ReviewHandler) ListDue(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("missing user identity"))
		return
	}
	items, err := h.reviewSvc.ListDue(c.Request.Context(), rd.UserID, intQuery(c, "limit", 50))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}

// POST /api/reviews/:id/attempt
// Body: {"grade": "FAIL|HARD|OK|EASY"}
func (h *ReviewHandler) RecordAttempt(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("missing user identity"))
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_item_id", err)
		return
	}

	var body struct {
		Grade string `json:"grade"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(body.Grade) == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("grade required"))
		return
	}

	res, err := h.reviewSvc.RecordAttempt(c.Request.Context(), rd.UserID, rd.SessionID, itemID, body.Grade)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "attempt_failed", err)
		return
	}
	RespondOK(c, res)
}
