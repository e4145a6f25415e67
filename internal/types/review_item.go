package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewItem is the per-learnable-item spaced-repetition state. Stage and
// interval semantics live in internal/mastery; this row is just the record.
type ReviewItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_review_item_user_term,unique,priority:1" json:"user_id"`
	Term       string         `gorm:"column:term;not null;index:idx_review_item_user_term,unique,priority:2" json:"term"`
	Language   string         `gorm:"column:language;not null;default:''" json:"language"`
	Stage      string         `gorm:"column:stage;not null;default:'NEW'" json:"stage"`
	Lapses     int            `gorm:"column:lapses;not null;default:0" json:"lapses"`
	LastGrade  string         `gorm:"column:last_grade" json:"last_grade,omitempty"`
	DueAt      *time.Time     `gorm:"column:due_at;index" json:"due_at,omitempty"`
	LastSeenAt *time.Time     `gorm:"column:last_seen_at" json:"last_seen_at,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReviewItem) TableName() string { return "review_item" }

func (r *ReviewItem) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
