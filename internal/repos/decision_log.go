package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/linguabridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

// DecisionLogRepo is append-only. There is deliberately no update or delete;
// corrections are written as new entries.
type DecisionLogRepo interface {
	Create(dbc dbctx.Context, entry *types.DecisionLogEntry) (*types.DecisionLogEntry, error)
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID, limit, offset int) ([]*types.DecisionLogEntry, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*types.DecisionLogEntry, error)
}

type decisionLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDecisionLogRepo(db *gorm.DB, baseLog *logger.Logger) DecisionLogRepo {
	return &decisionLogRepo{
		db:  db,
		log: baseLog.With("repo", "DecisionLogRepo"),
	}
}

func (r *decisionLogRepo) Create(dbc dbctx.Context, entry *types.DecisionLogEntry) (*types.DecisionLogEntry, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if entry == nil {
		return nil, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *decisionLogRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID, limit, offset int) ([]*types.DecisionLogEntry, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sessionID == uuid.Nil {
		return []*types.DecisionLogEntry{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var rows []*types.DecisionLogEntry
	if err := t.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *decisionLogRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*types.DecisionLogEntry, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return []*types.DecisionLogEntry{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var rows []*types.DecisionLogEntry
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
