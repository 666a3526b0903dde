package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/mma_ledger/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// NewAuditRepository creates a repository writing to the audit_log table.
func NewAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.AuditSink   = (*PgxAuditRepository)(nil)
	_ portsrepo.AuditReader = (*PgxAuditRepository)(nil)
)

// Record inserts one audit action.
func (r *PgxAuditRepository) Record(ctx context.Context, action domain.AuditAction) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	var companyID *string
	if action.CompanyID != "" {
		companyID = &action.CompanyID
	}
	m := models.AuditAction{
		AuditID:    action.ID,
		Action:     string(action.Action),
		EntityType: action.EntityType,
		EntityID:   action.EntityID,
		CompanyID:  companyID,
		ActorID:    action.ActorID,
		ActorName:  action.ActorName,
		Details:    action.Details,
		OccurredAt: action.OccurredAt,
	}

	query := `
		INSERT INTO audit_log (audit_id, action, entity_type, entity_id, company_id, actor_id, actor_name, details, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AuditID, m.Action, m.EntityType, m.EntityID, m.CompanyID, m.ActorID, m.ActorName, m.Details, m.OccurredAt)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrStorage, fmt.Sprintf("failed to record audit action for %s", action.EntityID), err)
	}
	return nil
}

// ListByEntity returns the actions recorded for an entity, oldest first.
func (r *PgxAuditRepository) ListByEntity(ctx context.Context, entityID string) ([]domain.AuditAction, error) {
	query := `
		SELECT audit_id, action, entity_type, entity_id, company_id, actor_id, actor_name, details, occurred_at
		FROM audit_log
		WHERE entity_id = $1
		ORDER BY occurred_at, audit_id;
	`
	rows, err := r.Pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrStorage, "failed to list audit actions", err)
	}

	actions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuditAction, error) {
		var m models.AuditAction
		if err := row.Scan(&m.AuditID, &m.Action, &m.EntityType, &m.EntityID, &m.CompanyID, &m.ActorID, &m.ActorName, &m.Details, &m.OccurredAt); err != nil {
			return domain.AuditAction{}, err
		}
		action := domain.AuditAction{
			ID:         m.AuditID,
			Action:     domain.AuditActionKind(m.Action),
			EntityType: m.EntityType,
			EntityID:   m.EntityID,
			ActorID:    m.ActorID,
			ActorName:  m.ActorName,
			Details:    m.Details,
			OccurredAt: m.OccurredAt,
		}
		if m.CompanyID != nil {
			action.CompanyID = *m.CompanyID
		}
		return action, nil
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrStorage, "failed to scan audit actions", err)
	}
	return actions, nil
}
