package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/policy"
	"github.com/yungbote/linguabridge-backend/internal/services"
)

type PolicyHandler struct {
	log       *logger.Logger
	policySvc services.PolicyService
}

func NewPolicyHandler(log *logger.Logger, policySvc services.PolicyService) *PolicyHandler {
	return &PolicyHandler{
		log:       log.With("handler", "PolicyHandler"),
		policySvc: policySvc,
	}
}

// GET /api/policy/effective?scope=global|institution
// Resolved policy for the calling user, optionally pinned at a wider scope.
func (h *PolicyHandler) GetEffective(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("missing user identity"))
		return
	}

	var scope policy.ScopeOverride
	switch c.Query("scope") {
	case "":
		scope = policy.ScopeDefault
	case "global":
		scope = policy.ScopeGlobalOnly
	case "institution":
		scope = policy.ScopeInstitutionOnly
	default:
		RespondError(c, http.StatusBadRequest, "bad_scope", fmt.Errorf("unknown scope %q", c.Query("scope")))
		return
	}

	pol, err := h.policySvc.Effective(c.Request.Context(), rd.UserID, rd.TenantID, scope)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "policy_failed", err)
		return
	}
	RespondOK(c, gin.H{"policy": pol})
}
