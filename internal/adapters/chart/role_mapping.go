package chart

import (
	"context"
	"fmt"
	"os"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"gopkg.in/yaml.v3"
)

// DefaultCompanyKey holds the mapping used by companies without their own entry.
const DefaultCompanyKey = "*"

// CompanyMapping is the per-company section of a role mapping file.
type CompanyMapping struct {
	Defaults          map[string]string `yaml:"defaults"`
	RevenueByCategory map[string]string `yaml:"revenue_by_category"`
	ExpenseByCategory map[string]string `yaml:"expense_by_category"`
}

// RoleMappingFile maps company IDs (or "*") to their role mappings.
type RoleMappingFile struct {
	Companies map[string]CompanyMapping `yaml:"companies"`
}

// RoleMappings serves role mappings loaded from YAML.
type RoleMappings struct {
	byCompany map[string]*domain.AccountRoleMapping
}

var _ portsrepo.AccountRoleMappingReader = (*RoleMappings)(nil)

var knownRoles = map[domain.AccountRole]bool{
	domain.RoleBank:      true,
	domain.RoleRevenue:   true,
	domain.RoleExpense:   true,
	domain.RoleCOGS:      true,
	domain.RoleInventory: true,
}

// LoadRoleMappings reads a role mapping YAML file.
func LoadRoleMappings(path string) (*RoleMappings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read account mapping file: %w", err)
	}

	var file RoleMappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return NewRoleMappings(file)
}

// NewRoleMappings validates file and builds the lookup table.
func NewRoleMappings(file RoleMappingFile) (*RoleMappings, error) {
	m := &RoleMappings{byCompany: make(map[string]*domain.AccountRoleMapping, len(file.Companies))}
	for companyID, cm := range file.Companies {
		defaults := make(map[domain.AccountRole]string, len(cm.Defaults))
		for role, accountID := range cm.Defaults {
			r := domain.AccountRole(role)
			if !knownRoles[r] {
				return nil, fmt.Errorf("company %q maps unknown role %q", companyID, role)
			}
			defaults[r] = accountID
		}
		m.byCompany[companyID] = &domain.AccountRoleMapping{
			CompanyID:         companyID,
			Defaults:          defaults,
			RevenueByCategory: cm.RevenueByCategory,
			ExpenseByCategory: cm.ExpenseByCategory,
		}
	}
	return m, nil
}

// FindRoleMapping returns the company's mapping, falling back to the "*" entry.
func (m *RoleMappings) FindRoleMapping(ctx context.Context, companyID string) (*domain.AccountRoleMapping, error) {
	if mapping, ok := m.byCompany[companyID]; ok {
		return mapping, nil
	}
	if mapping, ok := m.byCompany[DefaultCompanyKey]; ok {
		return mapping, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("account role mapping for company %q", companyID))
}
