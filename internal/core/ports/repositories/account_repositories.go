package repositories

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// ChartOfAccountsReader defines read operations for the chart of accounts
type ChartOfAccountsReader interface {
	// ListAccounts returns the accounts visible to a company. An empty companyID returns every account.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// ChartOfAccountsWriter defines write operations for the chart of accounts
type ChartOfAccountsWriter interface {
	// SaveAccount inserts or replaces an account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// ChartOfAccountsFacade combines all chart-of-accounts repository interfaces
type ChartOfAccountsFacade interface {
	ChartOfAccountsReader
	ChartOfAccountsWriter
}

// AccountRoleMappingReader looks up the configured role-to-account mapping for a company.
type AccountRoleMappingReader interface {
	// FindRoleMapping returns the mapping for companyID, or apperrors.ErrNotFound when none is configured.
	FindRoleMapping(ctx context.Context, companyID string) (*domain.AccountRoleMapping, error)
}
