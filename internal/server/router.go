package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/linguabridge-backend/internal/handlers"
	"github.com/yungbote/linguabridge-backend/internal/middleware"
)

type RouterConfig struct {
	RequestContext  *middleware.RequestContextMiddleware
	TurnHandler     *handlers.TurnHandler
	PolicyHandler   *handlers.PolicyHandler
	DecisionHandler *handlers.DecisionHandler
	ReviewHandler   *handlers.ReviewHandler
	SSEHandler      *handlers.SSEHandler

	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id", "X-User-Id", "X-Session-Id", "X-Tenant-Id"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware("linguabridge"))
	router.Use(cfg.RequestContext.Attach())

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || API       ||
	// ===============
	api := router.Group("/api")
	{
		api.POST("/turn", cfg.RequestContext.RequireSession(), cfg.TurnHandler.ProcessTurn)
		api.GET("/policy/effective", cfg.PolicyHandler.GetEffective)
		api.GET("/decisions", cfg.DecisionHandler.List)
		api.GET("/reviews/due", cfg.ReviewHandler.ListDue)
		api.POST("/reviews/:id/attempt", cfg.RequestContext.RequireSession(), cfg.ReviewHandler.RecordAttempt)
	}

	// SSE
	router.GET("/sse/decisions", cfg.SSEHandler.StreamDecisions)

	return router
}

// SplitOrigins parses a comma-separated origin list from config.
func SplitOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
