package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/repos"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

// DecisionLogService is the read side of the audit log for operators and
// learner-facing history views. Writes happen only inside turn processing.
type DecisionLogService interface {
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*types.DecisionLogEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.DecisionLogEntry, error)
}

type decisionLogService struct {
	log  *logger.Logger
	repo repos.DecisionLogRepo
}

func NewDecisionLogService(repo repos.DecisionLogRepo, baseLog *logger.Logger) DecisionLogService {
	return &decisionLogService{
		log:  baseLog.With("service", "DecisionLogService"),
		repo: repo,
	}
}

func (s *decisionLogService) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*types.DecisionLogEntry, error) {
	return s.repo.ListBySession(dbctx.Context{Ctx: ctx}, sessionID, limit, offset)
}

func (s *decisionLogService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.DecisionLogEntry, error) {
	return s.repo.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit, offset)
}
