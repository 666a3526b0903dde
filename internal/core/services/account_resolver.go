package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
)

// accountResolver maps logical roles to chart-of-accounts entries.
type accountResolver struct {
	BaseService
	mappings        portsrepo.AccountRoleMappingReader
	keywordFallback bool
}

// ResolverOption is a functional option for configuring the account resolver
type ResolverOption func(*accountResolver)

// WithRoleMappings sets the explicit per-company role mapping source.
func WithRoleMappings(mappings portsrepo.AccountRoleMappingReader) ResolverOption {
	return func(r *accountResolver) {
		r.mappings = mappings
	}
}

// WithKeywordFallback enables name/category keyword matching when no mapping applies.
func WithKeywordFallback(enabled bool) ResolverOption {
	return func(r *accountResolver) {
		r.keywordFallback = enabled
	}
}

// NewAccountResolver creates an AccountResolverSvc.
func NewAccountResolver(options ...ResolverOption) portssvc.AccountResolverSvc {
	r := &accountResolver{}
	for _, option := range options {
		option(r)
	}
	return r
}

var _ portssvc.AccountResolverSvc = (*accountResolver)(nil)

func (r *accountResolver) Resolve(ctx context.Context, companyID string, role domain.AccountRole, category string, chart []domain.Account) (*domain.Account, error) {
	if r.mappings != nil {
		mapping, err := r.mappings.FindRoleMapping(ctx, companyID)
		switch {
		case err == nil:
			if accountID, ok := mapping.AccountIDFor(role, category); ok {
				return r.mappedAccount(accountID, role, category, chart)
			}
		case errors.Is(err, apperrors.ErrNotFound):
			r.LogDebug(ctx, "No account role mapping for company", slog.String("company_id", companyID))
		default:
			return nil, err
		}
	}

	if r.keywordFallback {
		if acc := matchByKeyword(role, category, chart); acc != nil {
			r.LogDebug(ctx, "Resolved account by keyword",
				slog.String("role", string(role)),
				slog.String("category", category),
				slog.String("account_id", acc.ID))
			return acc, nil
		}
	}

	return nil, apperrors.NewAppError(apperrors.ErrConfiguration,
		fmt.Sprintf("no matching %s account for category %q", role, category), nil)
}

func (r *accountResolver) mappedAccount(accountID string, role domain.AccountRole, category string, chart []domain.Account) (*domain.Account, error) {
	for i := range chart {
		if chart[i].ID != accountID {
			continue
		}
		if !chart[i].IsActive {
			return nil, apperrors.NewAppError(apperrors.ErrConfiguration,
				fmt.Sprintf("%s account %s mapped for category %q is inactive", role, accountID, category), nil)
		}
		acc := chart[i]
		return &acc, nil
	}
	return nil, apperrors.NewAppError(apperrors.ErrConfiguration,
		fmt.Sprintf("%s account %s mapped for category %q is not in the chart of accounts", role, accountID, category), nil)
}

// matchByKeyword returns the first active account, in chart order, matching the role's keywords.
func matchByKeyword(role domain.AccountRole, category string, chart []domain.Account) *domain.Account {
	cat := strings.ToLower(strings.TrimSpace(category))
	for i := range chart {
		acc := chart[i]
		if !acc.IsActive {
			continue
		}
		name := strings.ToLower(acc.Name)
		accCat := strings.ToLower(acc.Category)
		var ok bool
		switch role {
		case domain.RoleBank:
			ok = acc.Type == domain.Assets && containsAny(name, accCat, "cash", "bank")
		case domain.RoleRevenue:
			ok = acc.Type == domain.Revenue && cat != "" && (accCat == cat || strings.Contains(name, cat))
		case domain.RoleExpense:
			ok = acc.Type == domain.Expense && cat != "" && (accCat == cat || strings.Contains(name, cat))
		case domain.RoleCOGS:
			ok = acc.Type == domain.Expense && containsAny(name, accCat, "cost of goods", "cogs")
		case domain.RoleInventory:
			ok = acc.Type == domain.Assets && containsAny(name, accCat, "inventory")
		}
		if ok {
			return &acc
		}
	}
	return nil
}

func containsAny(name, category string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(name, k) || strings.Contains(category, k) {
			return true
		}
	}
	return false
}
