package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// summaryService aggregates cash-basis bookkeeping entries. It never touches the ledger.
type summaryService struct{}

// NewSummaryService creates a SummarySvc.
func NewSummaryService() portssvc.SummarySvc {
	return &summaryService{}
}

var _ portssvc.SummarySvc = (*summaryService)(nil)

func (s *summaryService) FinancialSummary(entries []domain.BookkeepingEntry) domain.FinancialSummary {
	summary := domain.FinancialSummary{
		TotalIncome:     decimal.Zero,
		TotalCOGS:       decimal.Zero,
		TotalExpenses:   decimal.Zero,
		TotalCOGSPaid:   decimal.Zero,
		AccountsPayable: decimal.Zero,
		NetProfit:       decimal.Zero,
	}
	for _, e := range entries {
		if !e.Amount.Valid {
			continue
		}
		switch e.Type {
		case domain.BookkeepingIncome:
			summary.TotalIncome = summary.TotalIncome.Add(e.Amount.Decimal)
			if e.COGS.Valid {
				summary.TotalCOGS = summary.TotalCOGS.Add(e.COGS.Decimal)
			}
			if e.COGSPaid.Valid {
				summary.TotalCOGSPaid = summary.TotalCOGSPaid.Add(e.COGSPaid.Decimal)
			}
		case domain.BookkeepingExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(e.Amount.Decimal)
		default:
			continue
		}
		summary.EntryCount++
	}

	payable := summary.TotalCOGS.Sub(summary.TotalCOGSPaid)
	if payable.IsPositive() {
		summary.AccountsPayable = payable
	}
	summary.NetProfit = summary.TotalIncome.Sub(summary.TotalExpenses.Add(summary.TotalCOGSPaid))
	return summary
}

func (s *summaryService) ExpenseBreakdown(entries []domain.BookkeepingEntry) []domain.CategoryAmount {
	byCategory := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Type != domain.BookkeepingExpense || !e.Amount.Valid {
			continue
		}
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount.Decimal)
	}

	out := make([]domain.CategoryAmount, 0, len(byCategory))
	for category, amount := range byCategory {
		out = append(out, domain.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// FilterByPeriod keeps entries inside the preset's calendar period relative to now.
func (s *summaryService) FilterByPeriod(entries []domain.BookkeepingEntry, preset domain.PeriodPreset, now time.Time) ([]domain.BookkeepingEntry, error) {
	if preset == domain.PeriodAllTime || preset == "" {
		return append([]domain.BookkeepingEntry(nil), entries...), nil
	}
	start, end, err := periodBounds(preset, now)
	if err != nil {
		return nil, err
	}
	return s.FilterByDateRange(entries, start, end), nil
}

// periodBounds returns the first and last calendar day of preset, in UTC.
func periodBounds(preset domain.PeriodPreset, now time.Time) (time.Time, time.Time, error) {
	y, m, _ := now.UTC().Date()
	switch preset {
	case domain.PeriodThisMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), nil
	case domain.PeriodLastMonth:
		start := time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), nil
	case domain.PeriodThisYear:
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC), nil
	case domain.PeriodLastYear:
		return time.Date(y-1, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(y-1, 12, 31, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, time.Time{}, apperrors.NewValidationError(fmt.Sprintf("unknown period %q", preset))
}

func (s *summaryService) FilterByCompany(entries []domain.BookkeepingEntry, companyID string) []domain.BookkeepingEntry {
	return filterBookkeeping(entries, func(e domain.BookkeepingEntry) bool { return e.CompanyID == companyID })
}

func (s *summaryService) FilterByType(entries []domain.BookkeepingEntry, entryType domain.BookkeepingType) []domain.BookkeepingEntry {
	return filterBookkeeping(entries, func(e domain.BookkeepingEntry) bool { return e.Type == entryType })
}

// FilterByDateRange keeps entries dated within [start, end], compared by calendar day.
func (s *summaryService) FilterByDateRange(entries []domain.BookkeepingEntry, start, end time.Time) []domain.BookkeepingEntry {
	return filterBookkeeping(entries, func(e domain.BookkeepingEntry) bool { return domain.WithinDays(e.Date, start, end) })
}

func filterBookkeeping(entries []domain.BookkeepingEntry, keep func(domain.BookkeepingEntry) bool) []domain.BookkeepingEntry {
	out := make([]domain.BookkeepingEntry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
