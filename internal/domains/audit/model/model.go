package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "audit_log"
	EntityName = "audit_entry"

	FieldID         = "id"
	FieldTableName  = "table_name"
	FieldRecordID   = "record_id"
	FieldAction     = "action"
	FieldActorID    = "actor_id"
	FieldRecordedAt = "recorded_at"
)

// Entry is one immutable, append-only record of a mutation to a tracked
// table. Snapshots are full-row captures: insert carries no before image,
// delete no after image. Entries are never updated or deleted.
type Entry struct {
	ID         string          `db:"id"`
	TableName  string          `db:"table_name"`
	RecordID   string          `db:"record_id"`
	Action     string          `db:"action"`
	ActorID    *string         `db:"actor_id"`
	RecordedAt time.Time       `db:"recorded_at"`
	Before     *types.JSONText `db:"before_snapshot"`
	After      *types.JSONText `db:"after_snapshot"`
}
