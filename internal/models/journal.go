package models

import "time"

// LedgerDocument is a row of the ledger_documents table. Value holds JSONB.
type LedgerDocument struct {
	Key       string    `db:"doc_key"`
	Value     []byte    `db:"doc_value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AuditAction is a row of the audit_log table.
type AuditAction struct {
	AuditID    string    `db:"audit_id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	CompanyID  *string   `db:"company_id"`
	ActorID    string    `db:"actor_id"`
	ActorName  string    `db:"actor_name"`
	Details    string    `db:"details"`
	OccurredAt time.Time `db:"occurred_at"`
}
