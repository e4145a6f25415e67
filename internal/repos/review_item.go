package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/linguabridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

type ReviewItemRepo interface {
	Ensure(dbc dbctx.Context, userID uuid.UUID, term, language string) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ReviewItem, error)
	GetByTerm(dbc dbctx.Context, userID uuid.UUID, term string) (*types.ReviewItem, error)
	ListDueBefore(dbc dbctx.Context, userID uuid.UUID, due time.Time, limit int) ([]*types.ReviewItem, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
}

type reviewItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewItemRepo(db *gorm.DB, baseLog *logger.Logger) ReviewItemRepo {
	return &reviewItemRepo{
		db:  db,
		log: baseLog.With("repo", "ReviewItemRepo"),
	}
}

func (r *reviewItemRepo) Ensure(dbc dbctx.Context, userID uuid.UUID, term, language string) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || term == "" {
		return nil
	}
	now := time.Now().UTC()
	row := &types.ReviewItem{
		UserID:    userID,
		Term:      term,
		Language:  language,
		Stage:     "NEW",
		CreatedAt: now,
		UpdatedAt: now,
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (r *reviewItemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ReviewItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ReviewItem
	if err := t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *reviewItemRepo) GetByTerm(dbc dbctx.Context, userID uuid.UUID, term string) (*types.ReviewItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || term == "" {
		return nil, nil
	}
	var row types.ReviewItem
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND term = ?", userID, term).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *reviewItemRepo) ListDueBefore(dbc dbctx.Context, userID uuid.UUID, due time.Time, limit int) ([]*types.ReviewItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return []*types.ReviewItem{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var rows []*types.ReviewItem
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND due_at IS NOT NULL AND due_at <= ?", userID, due).
		Order("due_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reviewItemRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]any{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.ReviewItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}
