package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/linguabridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

// PolicyRecordRepo is read-only at turn-processing time; the admin surface
// that writes these rows lives outside this service.
type PolicyRecordRepo interface {
	GetGlobal(dbc dbctx.Context) (*types.PolicyRecord, error)
	GetByScope(dbc dbctx.Context, scope string, scopeID uuid.UUID) (*types.PolicyRecord, error)
}

type policyRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPolicyRecordRepo(db *gorm.DB, baseLog *logger.Logger) PolicyRecordRepo {
	return &policyRecordRepo{
		db:  db,
		log: baseLog.With("repo", "PolicyRecordRepo"),
	}
}

func (r *policyRecordRepo) GetGlobal(dbc dbctx.Context) (*types.PolicyRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.PolicyRecord
	if err := t.WithContext(dbc.Ctx).
		Where("scope = ? AND scope_id IS NULL", types.PolicyScopeGlobal).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *policyRecordRepo) GetByScope(dbc dbctx.Context, scope string, scopeID uuid.UUID) (*types.PolicyRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if scopeID == uuid.Nil {
		return nil, nil
	}
	var row types.PolicyRecord
	if err := t.WithContext(dbc.Ctx).
		Where("scope = ? AND scope_id = ?", scope, scopeID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
