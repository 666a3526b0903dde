package pgsql

import (
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every PostgreSQL-backed repository. Role mappings are
// file-based and set by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Store: NewDocumentStore(dbPool),
		Chart: NewAccountRepository(dbPool),
		Audit: NewAuditRepository(dbPool),
	}
}
