package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/mma_ledger/internal/adapters/chart"
	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRoleMappings struct {
	mock.Mock
}

func (m *MockRoleMappings) FindRoleMapping(ctx context.Context, companyID string) (*domain.AccountRoleMapping, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountRoleMapping), args.Error(1)
}

func TestAccountResolver_KeywordFallback(t *testing.T) {
	ctx := context.Background()
	resolver := services.NewAccountResolver(services.WithKeywordFallback(true))
	accounts := chartAccounts()

	tests := []struct {
		role     domain.AccountRole
		category string
		want     string
	}{
		{domain.RoleBank, "", "bank"},
		{domain.RoleRevenue, "Sales", "revenue"},
		{domain.RoleRevenue, "sales", "revenue"},
		{domain.RoleExpense, "Rent", "rent"},
		{domain.RoleCOGS, "Sales", "cogs"},
		{domain.RoleInventory, "Sales", "inventory"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.category, func(t *testing.T) {
			acc, err := resolver.Resolve(ctx, "1", tt.role, tt.category, accounts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, acc.ID)
		})
	}
}

func TestAccountResolver_SkipsInactiveAccounts(t *testing.T) {
	resolver := services.NewAccountResolver(services.WithKeywordFallback(true))
	accounts := []domain.Account{
		{ID: "old-bank", Name: "Old Bank", Type: domain.Assets, IsActive: false},
		{ID: "cash", Name: "Petty Cash", Type: domain.Assets, IsActive: true},
	}
	acc, err := resolver.Resolve(context.Background(), "1", domain.RoleBank, "", accounts)
	require.NoError(t, err)
	assert.Equal(t, "cash", acc.ID)
}

func TestAccountResolver_COGSAndInventoryRequireAccountType(t *testing.T) {
	ctx := context.Background()
	resolver := services.NewAccountResolver(services.WithKeywordFallback(true))
	accounts := []domain.Account{
		{ID: "writeoff", Name: "Inventory write-off", Type: domain.Expense, IsActive: true},
		{ID: "cogs-accrual", Name: "COGS accrual", Type: domain.Liabilities, IsActive: true},
		{ID: "stock", Name: "Inventory", Type: domain.Assets, IsActive: true},
		{ID: "cogs", Name: "Cost of Goods Sold", Type: domain.Expense, IsActive: true},
	}

	acc, err := resolver.Resolve(ctx, "1", domain.RoleInventory, "", accounts)
	require.NoError(t, err)
	assert.Equal(t, "stock", acc.ID)

	acc, err = resolver.Resolve(ctx, "1", domain.RoleCOGS, "", accounts)
	require.NoError(t, err)
	assert.Equal(t, "cogs", acc.ID)

	_, err = resolver.Resolve(ctx, "1", domain.RoleInventory, "", accounts[:2])
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestAccountResolver_NoMatchIsConfigurationError(t *testing.T) {
	resolver := services.NewAccountResolver(services.WithKeywordFallback(true))

	_, err := resolver.Resolve(context.Background(), "1", domain.RoleExpense, "Travel", chartAccounts())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Contains(t, err.Error(), `no matching expense account for category "Travel"`)

	// Without the fallback nothing is guessed.
	strict := services.NewAccountResolver()
	_, err = strict.Resolve(context.Background(), "1", domain.RoleBank, "", chartAccounts())
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestAccountResolver_MappingTakesPrecedence(t *testing.T) {
	ctx := context.Background()
	mappings, err := chart.NewRoleMappings(chart.RoleMappingFile{Companies: map[string]chart.CompanyMapping{
		"1": {
			Defaults:          map[string]string{"bank": "inventory", "revenue": "revenue"},
			ExpenseByCategory: map[string]string{"Travel": "rent"},
		},
	}})
	require.NoError(t, err)
	resolver := services.NewAccountResolver(services.WithRoleMappings(mappings), services.WithKeywordFallback(true))

	acc, err := resolver.Resolve(ctx, "1", domain.RoleBank, "", chartAccounts())
	require.NoError(t, err)
	assert.Equal(t, "inventory", acc.ID)

	acc, err = resolver.Resolve(ctx, "1", domain.RoleExpense, "Travel", chartAccounts())
	require.NoError(t, err)
	assert.Equal(t, "rent", acc.ID)

	// Unmapped roles fall through to keywords.
	acc, err = resolver.Resolve(ctx, "1", domain.RoleCOGS, "", chartAccounts())
	require.NoError(t, err)
	assert.Equal(t, "cogs", acc.ID)

	// Companies without a mapping use keywords only.
	acc, err = resolver.Resolve(ctx, "2", domain.RoleBank, "", chartAccounts())
	require.NoError(t, err)
	assert.Equal(t, "bank", acc.ID)
}

func TestAccountResolver_BrokenMappingIsConfigurationError(t *testing.T) {
	ctx := context.Background()
	accounts := chartAccounts()
	accounts[0].IsActive = false

	mappings := new(MockRoleMappings)
	mappings.On("FindRoleMapping", ctx, "1").Return(&domain.AccountRoleMapping{
		CompanyID: "1",
		Defaults:  map[domain.AccountRole]string{domain.RoleBank: "bank", domain.RoleRevenue: "gone"},
	}, nil)
	resolver := services.NewAccountResolver(services.WithRoleMappings(mappings), services.WithKeywordFallback(true))

	_, err := resolver.Resolve(ctx, "1", domain.RoleBank, "", accounts)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "inactive")

	_, err = resolver.Resolve(ctx, "1", domain.RoleRevenue, "Sales", accounts)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "not in the chart of accounts")

	mappings.AssertExpectations(t)
}

func TestAccountResolver_MappingLookupError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("mapping store down")
	mappings := new(MockRoleMappings)
	mappings.On("FindRoleMapping", ctx, "1").Return(nil, boom)

	resolver := services.NewAccountResolver(services.WithRoleMappings(mappings), services.WithKeywordFallback(true))
	_, err := resolver.Resolve(ctx, "1", domain.RoleBank, "", chartAccounts())
	assert.ErrorIs(t, err, boom)
}
