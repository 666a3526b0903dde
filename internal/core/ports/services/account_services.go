package services

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// AccountResolverSvc picks the chart-of-accounts entry that plays a role in an automatic conversion
type AccountResolverSvc interface {
	// Resolve returns the account for role, or a configuration error when nothing matches.
	Resolve(ctx context.Context, companyID string, role domain.AccountRole, category string, chart []domain.Account) (*domain.Account, error)
}
