package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PolicyScopeGlobal      = "global"
	PolicyScopeInstitution = "institution"
	PolicyScopeUser        = "user"
)

// PolicyRecord is one scoped partial policy document as stored by the admin
// surface. The engine only ever reads these; edits happen out-of-band.
type PolicyRecord struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Scope     string         `gorm:"column:scope;not null;index:idx_policy_scope,unique,priority:1" json:"scope"`
	ScopeID   *uuid.UUID     `gorm:"type:uuid;index:idx_policy_scope,unique,priority:2" json:"scope_id,omitempty"`
	Doc       datatypes.JSON `gorm:"column:doc;type:jsonb;not null" json:"doc"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PolicyRecord) TableName() string { return "policy_record" }

func (p *PolicyRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
