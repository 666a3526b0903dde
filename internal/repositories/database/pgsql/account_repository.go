package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/mma_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for chart-of-accounts data.
func NewAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.ChartOfAccountsFacade
var _ portsrepo.ChartOfAccountsFacade = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	var companyID *string
	if d.CompanyID != "" {
		companyID = &d.CompanyID
	}
	return models.Account{
		AccountID:   d.ID,
		CompanyID:   companyID,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: string(d.Type),
		Category:    d.Category,
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	acc := domain.Account{
		ID:       m.AccountID,
		Code:     m.Code,
		Name:     m.Name,
		Type:     domain.AccountType(m.AccountType),
		Category: m.Category,
		IsActive: m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.CompanyID != nil {
		acc.CompanyID = *m.CompanyID
	}
	return acc
}

// SaveAccount inserts an account or replaces the existing row with the same ID.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.LastUpdatedAt.IsZero() {
		account.LastUpdatedAt = now
	}
	m := toModelAccount(account)

	query := `
		INSERT INTO chart_of_accounts (account_id, company_id, code, name, account_type, category, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (account_id) DO UPDATE SET
			company_id = EXCLUDED.company_id,
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			account_type = EXCLUDED.account_type,
			category = EXCLUDED.category,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Category,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrStorage, fmt.Sprintf("failed to save account %s", account.ID), err)
	}
	return nil
}

// ListAccounts returns the company's accounts plus the shared ones, ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	query := `
		SELECT account_id, company_id, code, name, account_type, category, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM chart_of_accounts
		WHERE ($1 = '' OR company_id = $1 OR company_id IS NULL)
		ORDER BY code, account_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrStorage, "failed to list accounts", err)
	}

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		var m models.Account
		if err := row.Scan(
			&m.AccountID,
			&m.CompanyID,
			&m.Code,
			&m.Name,
			&m.AccountType,
			&m.Category,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return domain.Account{}, err
		}
		return toDomainAccount(m), nil
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrStorage, "failed to scan accounts", err)
	}
	return accounts, nil
}
