package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/linguabridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

type LearnerEventRepo interface {
	Create(dbc dbctx.Context, events []*types.LearnerEvent) ([]*types.LearnerEvent, error)
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*types.LearnerEvent, error)
}

type learnerEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearnerEventRepo(db *gorm.DB, baseLog *logger.Logger) LearnerEventRepo {
	return &learnerEventRepo{
		db:  db,
		log: baseLog.With("repo", "LearnerEventRepo"),
	}
}

func (r *learnerEventRepo) Create(dbc dbctx.Context, events []*types.LearnerEvent) ([]*types.LearnerEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(events) == 0 {
		return []*types.LearnerEvent{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *learnerEventRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*types.LearnerEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sessionID == uuid.Nil {
		return []*types.LearnerEvent{}, nil
	}
	if limit <= 0 {
		limit = 100
	}
	var rows []*types.LearnerEvent
	if err := t.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
