package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/linguabridge-backend/internal/agent"
	redisbus "github.com/yungbote/linguabridge-backend/internal/clients/redis"
	"github.com/yungbote/linguabridge-backend/internal/db"
	"github.com/yungbote/linguabridge-backend/internal/decision"
	"github.com/yungbote/linguabridge-backend/internal/handlers"
	"github.com/yungbote/linguabridge-backend/internal/middleware"
	"github.com/yungbote/linguabridge-backend/internal/observability"
	"github.com/yungbote/linguabridge-backend/internal/platform/envutil"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/repos"
	"github.com/yungbote/linguabridge-backend/internal/schemas"
	"github.com/yungbote/linguabridge-backend/internal/server"
	"github.com/yungbote/linguabridge-backend/internal/services"
	"github.com/yungbote/linguabridge-backend/internal/signals"
	"github.com/yungbote/linguabridge-backend/internal/sse"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Fail-fast config. A weak signing secret or a missing schema dir is a
	// broken deployment, not something to limp along with.
	schemaDir := os.Getenv("EVENT_SCHEMA_DIR")
	if schemaDir == "" {
		log.Error("EVENT_SCHEMA_DIR is required")
		os.Exit(1)
	}

	// Observability
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "linguabridge",
		Environment: envutil.GetEnv("APP_ENV", "development", log),
		Version:     envutil.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	policyRepo := repos.NewPolicyRecordRepo(thePG, log)
	reviewRepo := repos.NewReviewItemRepo(thePG, log)
	eventRepo := repos.NewLearnerEventRepo(thePG, log)
	decisionRepo := repos.NewDecisionLogRepo(thePG, log)

	// Event schemas
	registry, err := schemas.Load(schemaDir, log)
	if err != nil {
		log.Error("Failed to load event schemas", "dir", schemaDir, "error", err)
		os.Exit(1)
	}

	// Agent client (validates AGENT_SIGNING_SECRET length)
	agentClient, err := agent.NewFromEnv(log)
	if err != nil {
		log.Error("Failed to init agent client", "error", err)
		os.Exit(1)
	}

	// SSE hub + decision bus
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewHub(log)

	var emitter services.DecisionEmitter = &services.HubEmitter{Hub: sseHub}
	decisionBus, busErr := redisbus.NewDecisionBus(log)
	if busErr != nil {
		log.Warn("Redis decision bus unavailable, running hub-only", "error", busErr)
	} else {
		if err := decisionBus.StartForwarder(ctx, func(m sse.Message) { sseHub.Broadcast(m) }); err != nil {
			log.Warn("Redis forwarder failed to start, running hub-only", "error", err)
			_ = decisionBus.Close()
		} else {
			emitter = &services.RedisEmitter{Bus: decisionBus}
			defer decisionBus.Close()
		}
	}
	notifier := services.NewDecisionNotifier(emitter)

	// Services
	log.Info("Setting up Services from main...")
	tracker := decision.NewTracker(log)
	collector := signals.NewCollector(registry, log)
	policyService := services.NewPolicyService(policyRepo, log)
	reviewService := services.NewReviewService(reviewRepo, tracker, notifier, log)
	decisionLogService := services.NewDecisionLogService(decisionRepo, log)
	turnService := services.NewTurnService(
		collector,
		policyService,
		tracker,
		agentClient,
		decisionRepo,
		eventRepo,
		reviewRepo,
		notifier,
		log,
	)

	// Handlers
	log.Info("Setting up handlers from main...")
	turnHandler := handlers.NewTurnHandler(log, turnService)
	policyHandler := handlers.NewPolicyHandler(log, policyService)
	decisionHandler := handlers.NewDecisionHandler(log, decisionLogService)
	reviewHandler := handlers.NewReviewHandler(log, reviewService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	// Middleware
	requestContext := middleware.NewRequestContextMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		RequestContext:  requestContext,
		TurnHandler:     turnHandler,
		PolicyHandler:   policyHandler,
		DecisionHandler: decisionHandler,
		ReviewHandler:   reviewHandler,
		SSEHandler:      sseHandler,
		CORSOrigins:     server.SplitOrigins(envutil.GetEnv("CORS_ORIGINS", "", log)),
	})

	addr := envutil.GetEnv("HTTP_ADDR", ":8080", log)
	srv := &http.Server{Addr: addr, Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
