package models

import "time"

// AuditFields mirrors the created_at/updated_at columns.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"updated_at"`
}
