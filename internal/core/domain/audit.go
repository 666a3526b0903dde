package domain

import "time"

// AuditActionKind is the kind of change an audit record describes.
type AuditActionKind string

const (
	AuditCreate  AuditActionKind = "create"
	AuditPost    AuditActionKind = "post"
	AuditReverse AuditActionKind = "reverse"
)

// EntityJournalEntry is the entity type recorded for journal entry audit actions.
const EntityJournalEntry = "journal_entry"

// AuditAction is a single audit trail record.
type AuditAction struct {
	ID         string          `json:"id"`
	Action     AuditActionKind `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	CompanyID  string          `json:"companyId,omitempty"`
	ActorID    string          `json:"actorId"`
	ActorName  string          `json:"actorName"`
	Details    string          `json:"details"`
	OccurredAt time.Time       `json:"occurredAt"`
}
