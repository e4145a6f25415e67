package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerUserID    = "X-User-Id"
	headerSessionID = "X-Session-Id"
	headerTenantID  = "X-Tenant-Id"
)

type RequestContextMiddleware struct {
	log *logger.Logger
}

func NewRequestContextMiddleware(log *logger.Logger) *RequestContextMiddleware {
	return &RequestContextMiddleware{log: log.With("Middleware", "RequestContext")}
}

// Attach reads gateway-resolved identity headers into the request context.
// The gateway in front of this service authenticates the caller; here the
// headers are trusted as-is.
func (m *RequestContextMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := &ctxutil.RequestData{
			RequestID: strings.TrimSpace(c.GetHeader(headerRequestID)),
			UserID:    parseUUIDHeader(c, headerUserID),
			SessionID: parseUUIDHeader(c, headerSessionID),
			TenantID:  parseUUIDHeader(c, headerTenantID),
		}
		if rd.RequestID == "" {
			rd.RequestID = uuid.NewString()
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// RequireSession rejects requests lacking user and session identity. Turn
// and review endpoints need both; read-only operator endpoints do not.
func (m *RequestContextMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == uuid.Nil || rd.SessionID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing X-User-Id or X-Session-Id"})
			return
		}
		c.Next()
	}
}

func parseUUIDHeader(c *gin.Context, header string) uuid.UUID {
	raw := strings.TrimSpace(c.GetHeader(header))
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
