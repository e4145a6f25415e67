package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// legacyShowHint predates the prompt/mission action split. It only exists in
// historical rows; decode normalizes it so nothing downstream sees it.
const legacyShowHint = "SHOW_HINT"

// DecisionLogEntry is the append-only audit record for one learner turn.
// Corrections are new entries; there is no update or delete path.
type DecisionLogEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	TurnID    uuid.UUID `gorm:"type:uuid;not null;index" json:"turn_id"`

	CandidateAction string         `gorm:"column:candidate_action;not null" json:"candidate_action"`
	FinalAction     string         `gorm:"column:final_action;not null" json:"final_action"`
	Suppressed      bool           `gorm:"column:suppressed;not null;default:false" json:"suppressed"`
	SuppressReasons datatypes.JSON `gorm:"column:suppress_reasons;type:jsonb" json:"suppress_reasons,omitempty"`

	ChannelBefore string `gorm:"column:channel_before;not null" json:"channel_before"`
	ChannelAfter  string `gorm:"column:channel_after;not null" json:"channel_after"`

	BudgetRemainingAfter int        `gorm:"column:budget_remaining_after;not null" json:"budget_remaining_after"`
	CooldownUntilAfter   *time.Time `gorm:"column:cooldown_until_after" json:"cooldown_until_after,omitempty"`

	// PolicySnapshot holds the exact resolved policy bytes used for this
	// turn, not a reference to the live policy rows.
	PolicySnapshot datatypes.JSON `gorm:"column:policy_snapshot;type:jsonb;not null" json:"policy_snapshot"`
	TokenUsage     datatypes.JSON `gorm:"column:token_usage;type:jsonb" json:"token_usage,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (DecisionLogEntry) TableName() string { return "decision_log_entry" }

func (e *DecisionLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// AfterFind normalizes the legacy action alias at the persistence boundary.
func (e *DecisionLogEntry) AfterFind(tx *gorm.DB) error {
	if e.CandidateAction == legacyShowHint {
		e.CandidateAction = "ASK_PROMPT"
	}
	if e.FinalAction == legacyShowHint {
		e.FinalAction = "ASK_PROMPT"
	}
	return nil
}
