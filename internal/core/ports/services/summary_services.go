package services

import (
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// SummarySvc computes cash-basis figures over bookkeeping entries
type SummarySvc interface {
	FinancialSummary(entries []domain.BookkeepingEntry) domain.FinancialSummary
	ExpenseBreakdown(entries []domain.BookkeepingEntry) []domain.CategoryAmount
	FilterByPeriod(entries []domain.BookkeepingEntry, preset domain.PeriodPreset, now time.Time) ([]domain.BookkeepingEntry, error)
	FilterByCompany(entries []domain.BookkeepingEntry, companyID string) []domain.BookkeepingEntry
	FilterByType(entries []domain.BookkeepingEntry, entryType domain.BookkeepingType) []domain.BookkeepingEntry
	FilterByDateRange(entries []domain.BookkeepingEntry, start, end time.Time) []domain.BookkeepingEntry
}
