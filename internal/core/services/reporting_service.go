package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const unknownAccountName = "Unknown account"

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	storage portssvc.JournalStorageReaderSvc
	chart   portsrepo.ChartOfAccountsReader
	now     func() time.Time
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingClock overrides the clock used for GeneratedAt.
func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(storage portssvc.JournalStorageReaderSvc, chart portsrepo.ChartOfAccountsReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		storage: storage,
		chart:   chart,
		now:     time.Now,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

type accountTotals struct {
	debits  decimal.Decimal
	credits decimal.Decimal
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time, companyID string) (*domain.TrialBalance, error) {
	entries, err := s.storage.GetByStatus(ctx, domain.StatusPosted)
	if err != nil {
		s.LogError(ctx, err, "Failed to load posted entries for trial balance")
		return nil, err
	}
	var included []domain.JournalEntry
	for _, e := range entries {
		if (companyID == "" || e.CompanyID == companyID) && domain.SameDayOrBefore(e.Date, asOf) {
			included = append(included, e)
		}
	}

	totals := accumulate(included)
	accounts, err := s.accountIndex(ctx, companyID)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalance{
		AsOfDate:     asOf,
		CompanyID:    companyID,
		Accounts:     make([]domain.TrialBalanceAccount, 0, len(totals)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		GeneratedAt:  s.now(),
	}
	for accountID, t := range totals {
		acc := lookupAccount(accounts, accountID)
		net := t.debits.Sub(t.credits)
		report.Accounts = append(report.Accounts, domain.TrialBalanceAccount{
			AccountID:     accountID,
			AccountCode:   acc.Code,
			AccountName:   acc.Name,
			AccountType:   acc.Type,
			DebitBalance:  t.debits,
			CreditBalance: t.credits,
			NetBalance:    net,
		})
		if net.IsPositive() {
			report.TotalDebits = report.TotalDebits.Add(net)
		} else {
			report.TotalCredits = report.TotalCredits.Add(net.Abs())
		}
	}
	report.TotalDebits = report.TotalDebits.Round(2)
	report.TotalCredits = report.TotalCredits.Round(2)
	report.IsBalanced = domain.WithinTolerance(report.TotalDebits, report.TotalCredits)
	sort.Slice(report.Accounts, func(i, j int) bool {
		a, b := report.Accounts[i], report.Accounts[j]
		if a.AccountCode != b.AccountCode {
			return a.AccountCode < b.AccountCode
		}
		return a.AccountID < b.AccountID
	})

	s.LogDebug(ctx, "Trial balance generated",
		slog.String("company_id", companyID),
		slog.Int("entries", len(included)),
		slog.Int("accounts", len(report.Accounts)),
		slog.Bool("balanced", report.IsBalanced))
	return report, nil
}

// AccountBalances computes normal-balance signed balances for [start, end]
func (s *reportingService) AccountBalances(ctx context.Context, start, end time.Time, companyID string) ([]domain.AccountBalance, error) {
	entries, err := s.storage.GetByPeriod(ctx, start, end, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load posted entries for account balances")
		return nil, err
	}
	totals := accumulate(entries)
	accounts, err := s.accountIndex(ctx, companyID)
	if err != nil {
		return nil, err
	}

	balances := make([]domain.AccountBalance, 0, len(totals))
	for accountID, t := range totals {
		acc := lookupAccount(accounts, accountID)
		balance := t.credits.Sub(t.debits)
		if acc.Type.IsDebitNormal() {
			balance = t.debits.Sub(t.credits)
		}
		balances = append(balances, domain.AccountBalance{
			AccountID:    accountID,
			AccountCode:  acc.Code,
			AccountName:  acc.Name,
			AccountType:  acc.Type,
			TotalDebits:  t.debits,
			TotalCredits: t.credits,
			Balance:      balance,
		})
	}
	sort.Slice(balances, func(i, j int) bool {
		if balances[i].AccountCode != balances[j].AccountCode {
			return balances[i].AccountCode < balances[j].AccountCode
		}
		return balances[i].AccountID < balances[j].AccountID
	})
	return balances, nil
}

func accumulate(entries []domain.JournalEntry) map[string]*accountTotals {
	totals := make(map[string]*accountTotals)
	for _, e := range entries {
		for _, line := range e.Lines {
			t, ok := totals[line.AccountID]
			if !ok {
				t = &accountTotals{debits: decimal.Zero, credits: decimal.Zero}
				totals[line.AccountID] = t
			}
			t.debits = t.debits.Add(line.Debit)
			t.credits = t.credits.Add(line.Credit)
		}
	}
	return totals
}

func (s *reportingService) accountIndex(ctx context.Context, companyID string) (map[string]domain.Account, error) {
	index := make(map[string]domain.Account)
	if s.chart == nil {
		return index, nil
	}
	accounts, err := s.chart.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load chart of accounts", slog.String("company_id", companyID))
		return nil, err
	}
	for _, acc := range accounts {
		index[acc.ID] = acc
	}
	return index, nil
}

func lookupAccount(index map[string]domain.Account, accountID string) domain.Account {
	if acc, ok := index[accountID]; ok {
		return acc
	}
	return domain.Account{ID: accountID, Name: unknownAccountName}
}
