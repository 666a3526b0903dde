package repositories

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// AuditSink receives audit actions. Callers treat it as fire-and-forget.
type AuditSink interface {
	Record(ctx context.Context, action domain.AuditAction) error
}

// AuditReader lists recorded audit actions
type AuditReader interface {
	// ListByEntity returns the actions recorded for entityID, oldest first.
	ListByEntity(ctx context.Context, entityID string) ([]domain.AuditAction, error)
}
