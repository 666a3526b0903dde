// Package audit provides audit sinks that do not need a database.
package audit

import (
	"context"
	"log/slog"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/mma_ledger/internal/platform/logging"
	"github.com/google/uuid"
)

// LogSink writes audit actions to the structured log.
type LogSink struct {
	logger *slog.Logger
}

var _ portsrepo.AuditSink = (*LogSink)(nil)

// NewLogSink creates a LogSink. A nil logger uses the logger carried by each call's context.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ctx context.Context, action domain.AuditAction) error {
	logger := s.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	logger.InfoContext(ctx, "audit",
		slog.String("audit_id", action.ID),
		slog.String("action", string(action.Action)),
		slog.String("entity_type", action.EntityType),
		slog.String("entity_id", action.EntityID),
		slog.String("company_id", action.CompanyID),
		slog.String("actor_id", action.ActorID),
		slog.String("actor_name", action.ActorName),
		slog.String("details", action.Details),
		slog.Time("occurred_at", action.OccurredAt),
	)
	return nil
}
