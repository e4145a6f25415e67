package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a turn's context with an optional GORM transaction so the
// event and decision-log writes of one turn can share a unit of work. A nil
// Tx means the repo uses its own connection.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
