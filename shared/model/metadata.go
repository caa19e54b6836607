package model

import "time"

// Metadata carries the audit-stamp columns shared by every mutable table.
// ModifiedAt/ModifiedBy are set inside the mutating transaction itself, never
// by hidden database side effects.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"`
	ModifiedBy string    `db:"modified_by"`
}
