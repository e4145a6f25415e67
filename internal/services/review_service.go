package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/decision"
	"github.com/yungbote/linguabridge-backend/internal/mastery"
	"github.com/yungbote/linguabridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/repos"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

// AttemptResult is the outcome of grading one review attempt.
type AttemptResult struct {
	Item         *types.ReviewItem `json:"item"`
	Stage        mastery.Stage     `json:"stage"`
	DueAt        time.Time         `json:"due_at"`
	Lapsed       bool              `json:"lapsed"`
	MasteryAfter float64           `json:"mastery_after"`
}

type ReviewService interface {
	ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ReviewItem, error)
	RecordAttempt(ctx context.Context, userID, sessionID, itemID uuid.UUID, grade string) (*AttemptResult, error)
}

type reviewService struct {
	log      *logger.Logger
	items    repos.ReviewItemRepo
	tracker  *decision.Tracker
	notifier DecisionNotifier
}

func NewReviewService(items repos.ReviewItemRepo, tracker *decision.Tracker, notifier DecisionNotifier, baseLog *logger.Logger) ReviewService {
	return &reviewService{
		log:      baseLog.With("service", "ReviewService"),
		items:    items,
		tracker:  tracker,
		notifier: notifier,
	}
}

func (s *reviewService) ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ReviewItem, error) {
	return s.items.ListDueBefore(dbctx.Context{Ctx: ctx}, userID, time.Now().UTC(), limit)
}

// RecordAttempt grades one item, reschedules it, and folds the result into
// the session's live mastery signal.
func (s *reviewService) RecordAttempt(ctx context.Context, userID, sessionID, itemID uuid.UUID, grade string) (*AttemptResult, error) {
	g, err := mastery.ParseGrade(grade)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	item, err := s.items.GetByID(dbc, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.UserID != userID {
		return nil, fmt.Errorf("review item %s not found", itemID)
	}

	stage, err := mastery.ParseStage(item.Stage)
	if err != nil {
		// Unknown stored stage; treat as fresh rather than failing the attempt.
		s.log.Warn("Unknown review stage, treating as NEW", "item_id", item.ID, "stage", item.Stage)
		stage = mastery.StageNew
	}

	now := time.Now().UTC()
	res := mastery.Apply(stage, g, now)

	updates := map[string]any{
		"stage":        string(res.Stage),
		"due_at":       res.DueAt,
		"last_grade":   string(g),
		"last_seen_at": now,
	}
	if res.Lapsed {
		updates["lapses"] = item.Lapses + 1
	}
	if err := s.items.UpdateFields(dbc, item.ID, updates); err != nil {
		return nil, fmt.Errorf("update review item: %w", err)
	}

	var masteryAfter float64
	if s.tracker != nil && sessionID != uuid.Nil {
		st := s.tracker.ApplyAttempt(sessionID, mastery.Delta(g), res.Lapsed)
		masteryAfter = st.Mastery
	}

	item.Stage = string(res.Stage)
	item.DueAt = &res.DueAt
	item.LastGrade = string(g)
	item.LastSeenAt = &now
	if res.Lapsed {
		item.Lapses++
	}

	s.log.Info("Review attempt recorded",
		"user_id", userID,
		"item_id", item.ID,
		"grade", string(g),
		"stage", item.Stage,
		"lapsed", res.Lapsed,
	)

	return &AttemptResult{
		Item:         item,
		Stage:        res.Stage,
		DueAt:        res.DueAt,
		Lapsed:       res.Lapsed,
		MasteryAfter: masteryAfter,
	}, nil
}
