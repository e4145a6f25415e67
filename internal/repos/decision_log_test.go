package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/linguabridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/linguabridge-backend/internal/repos/testutil"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

func TestDecisionLogRepo_CreateAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewDecisionLogRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	sessionID := uuid.New()
	userID := uuid.New()
	base := time.Now().UTC()

	for i := 0; i < 3; i++ {
		entry := &types.DecisionLogEntry{
			ID:                   uuid.New(),
			UserID:               userID,
			SessionID:            sessionID,
			TurnID:               uuid.New(),
			CandidateAction:      "CALL_AGENT",
			FinalAction:          "ASK_PROMPT",
			Suppressed:           false,
			ChannelBefore:        "LLM",
			ChannelAfter:         "DETERMINISTIC",
			BudgetRemainingAfter: 0,
			PolicySnapshot:       datatypes.JSON([]byte(`{}`)),
			CreatedAt:            base.Add(time.Duration(i) * time.Second),
		}
		if _, err := repo.Create(dbc, entry); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rows, err := repo.ListBySession(dbc, sessionID, 10, 0)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ListBySession: expected 3 rows, got %d", len(rows))
	}
	if !rows[0].CreatedAt.After(rows[2].CreatedAt) {
		t.Fatalf("ListBySession: expected newest-first ordering")
	}

	byUser, err := repo.ListByUser(dbc, userID, 2, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("ListByUser: expected limit 2, got %d", len(byUser))
	}
}

func TestDecisionLogRepo_NormalizesLegacyShowHint(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewDecisionLogRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	sessionID := uuid.New()
	entry := &types.DecisionLogEntry{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		SessionID:       sessionID,
		TurnID:          uuid.New(),
		CandidateAction: "SHOW_HINT",
		FinalAction:     "SHOW_HINT",
		ChannelBefore:   "DETERMINISTIC",
		ChannelAfter:    "DETERMINISTIC",
		PolicySnapshot:  datatypes.JSON([]byte(`{}`)),
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := repo.Create(dbc, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.ListBySession(dbc, sessionID, 1, 0)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].CandidateAction != "ASK_PROMPT" || rows[0].FinalAction != "ASK_PROMPT" {
		t.Fatalf("expected legacy SHOW_HINT normalized to ASK_PROMPT, got %q / %q",
			rows[0].CandidateAction, rows[0].FinalAction)
	}
}
