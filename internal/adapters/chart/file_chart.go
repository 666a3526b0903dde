// Package chart provides file-based chart-of-accounts and account role mapping sources.
package chart

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"gopkg.in/yaml.v3"
)

// AccountEntry is one account in a chart YAML file.
type AccountEntry struct {
	ID        string `yaml:"id"`
	CompanyID string `yaml:"company_id"`
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Category  string `yaml:"category"`
	Active    *bool  `yaml:"active"` // Defaults to true
}

// ChartFile is the complete chart-of-accounts file.
type ChartFile struct {
	Accounts []AccountEntry `yaml:"accounts"`
}

// StaticChart serves a fixed list of accounts.
type StaticChart struct {
	accounts []domain.Account
}

var _ portsrepo.ChartOfAccountsReader = (*StaticChart)(nil)

// NewStaticChart creates a chart from accounts, ordered by code then ID.
func NewStaticChart(accounts []domain.Account) *StaticChart {
	sorted := make([]domain.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Code != sorted[j].Code {
			return sorted[i].Code < sorted[j].Code
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &StaticChart{accounts: sorted}
}

// LoadFile reads a chart-of-accounts YAML file.
func LoadFile(path string) (*StaticChart, error) {
	accounts, err := ReadAccounts(path)
	if err != nil {
		return nil, err
	}
	return NewStaticChart(accounts), nil
}

// ReadAccounts parses and validates the accounts in a chart YAML file.
func ReadAccounts(path string) ([]domain.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	var file ChartFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	seen := make(map[string]bool, len(file.Accounts))
	accounts := make([]domain.Account, 0, len(file.Accounts))
	for i, entry := range file.Accounts {
		if entry.ID == "" {
			return nil, fmt.Errorf("chart account #%d has no id", i+1)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("duplicate chart account id %q", entry.ID)
		}
		seen[entry.ID] = true

		accountType := domain.AccountType(entry.Type)
		if !accountType.Valid() {
			return nil, fmt.Errorf("chart account %q has unknown type %q", entry.ID, entry.Type)
		}
		active := true
		if entry.Active != nil {
			active = *entry.Active
		}
		accounts = append(accounts, domain.Account{
			ID:        entry.ID,
			CompanyID: entry.CompanyID,
			Code:      entry.Code,
			Name:      entry.Name,
			Type:      accountType,
			Category:  entry.Category,
			IsActive:  active,
		})
	}
	return accounts, nil
}

// ListAccounts returns the company's accounts plus the shared ones. An empty companyID returns every account.
func (c *StaticChart) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(c.accounts))
	for _, acc := range c.accounts {
		if companyID == "" || acc.CompanyID == "" || acc.CompanyID == companyID {
			out = append(out, acc)
		}
	}
	return out, nil
}
