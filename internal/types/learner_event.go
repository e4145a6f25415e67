package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LearnerEvent is one validated signal event (command-derived or structured
// UI event). Stored so decision log entries can be joined to their inputs.
type LearnerEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	TurnID    uuid.UUID      `gorm:"type:uuid;index" json:"turn_id"`
	EventType string         `gorm:"column:event_type;not null;index" json:"event_type"`
	Version   int            `gorm:"column:version;not null;default:1" json:"version"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (LearnerEvent) TableName() string { return "learner_event" }

func (e *LearnerEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
