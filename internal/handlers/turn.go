package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/schemas"
	"github.com/yungbote/linguabridge-backend/internal/services"
)

type TurnHandler struct {
	log     *logger.Logger
	turnSvc services.TurnService
}

func NewTurnHandler(log *logger.Logger, turnSvc services.TurnService) *TurnHandler {
	return &TurnHandler{
		log:     log.With("handler", "TurnHandler"),
		turnSvc: turnSvc,
	}
}

// POST /api/turn
// Runs one learner turn through the decision pipeline.
func (h *TurnHandler) ProcessTurn(c *gin.Context) {
	var in services.TurnInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	res, err := h.turnSvc.ProcessTurn(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, schemas.ErrSchemaNotFound) {
			RespondError(c, http.StatusUnprocessableEntity, "schema_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "turn_failed", err)
		return
	}
	RespondOK(c, res)
}
