package domain_test

import (
	"testing"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(debit, credit string) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		AccountID: "acc",
		Debit:     decimal.RequireFromString(debit),
		Credit:    decimal.RequireFromString(credit),
	}
}

func TestJournalEntry_Recalculate(t *testing.T) {
	tests := []struct {
		name         string
		lines        []domain.JournalEntryLine
		wantDebits   string
		wantCredits  string
		wantBalanced bool
	}{
		{
			name:         "balanced",
			lines:        []domain.JournalEntryLine{line("100", "0"), line("0", "100")},
			wantDebits:   "100",
			wantCredits:  "100",
			wantBalanced: true,
		},
		{
			name:         "rounded to two decimals",
			lines:        []domain.JournalEntryLine{line("10.004", "0"), line("0", "10")},
			wantDebits:   "10",
			wantCredits:  "10",
			wantBalanced: true,
		},
		{
			name:         "difference of exactly one cent is not balanced",
			lines:        []domain.JournalEntryLine{line("10.01", "0"), line("0", "10")},
			wantDebits:   "10.01",
			wantCredits:  "10",
			wantBalanced: false,
		},
		{
			name:         "unbalanced",
			lines:        []domain.JournalEntryLine{line("100", "0"), line("0", "90")},
			wantDebits:   "100",
			wantCredits:  "90",
			wantBalanced: false,
		},
		{
			name:         "no lines",
			wantDebits:   "0",
			wantCredits:  "0",
			wantBalanced: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := domain.JournalEntry{Lines: tt.lines, IsBalanced: !tt.wantBalanced}
			entry.Recalculate()

			assert.True(t, decimal.RequireFromString(tt.wantDebits).Equal(entry.TotalDebits), "debits %s", entry.TotalDebits)
			assert.True(t, decimal.RequireFromString(tt.wantCredits).Equal(entry.TotalCredits), "credits %s", entry.TotalCredits)
			assert.Equal(t, tt.wantBalanced, entry.IsBalanced)
		})
	}
}

func TestEntryNumber_FormatAndParse(t *testing.T) {
	assert.Equal(t, "JE-001", domain.FormatEntryNumber(1))
	assert.Equal(t, "JE-042", domain.FormatEntryNumber(42))
	assert.Equal(t, "JE-1000", domain.FormatEntryNumber(1000))

	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{in: "JE-001", want: 1, wantOK: true},
		{in: "JE-1000", want: 1000, wantOK: true},
		{in: "JE-", wantOK: false},
		{in: "JE-abc", wantOK: false},
		{in: "INV-004", wantOK: false},
		{in: "", wantOK: false},
		{in: "JE--5", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := domain.ParseEntryNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJournalEntry_StampPosted_KeepsExistingApproval(t *testing.T) {
	approver := domain.Actor{ID: "u1", FullName: "Alice"}
	poster := domain.Actor{ID: "u2", FullName: "Bob"}
	entry := domain.JournalEntry{ApprovedBy: approver.ID, ApprovedByName: approver.FullName, Status: domain.StatusDraft}

	now := mustDate(t, "2024-02-01")
	entry.StampPosted(poster, now)

	assert.Equal(t, domain.StatusPosted, entry.Status)
	assert.Equal(t, "u1", entry.ApprovedBy)
	assert.Equal(t, "u2", entry.PostedBy)
	assert.Equal(t, "Bob", entry.LastModifiedByName)
	assert.Equal(t, now, *entry.PostedAt)
}

func TestAccountType_IsDebitNormal(t *testing.T) {
	assert.True(t, domain.Assets.IsDebitNormal())
	assert.True(t, domain.Expense.IsDebitNormal())
	assert.False(t, domain.Liabilities.IsDebitNormal())
	assert.False(t, domain.Equity.IsDebitNormal())
	assert.False(t, domain.Revenue.IsDebitNormal())
	assert.False(t, domain.AccountType("").IsDebitNormal())
}

func TestAccountRoleMapping_AccountIDFor(t *testing.T) {
	m := &domain.AccountRoleMapping{
		Defaults: map[domain.AccountRole]string{
			domain.RoleBank:    "bank",
			domain.RoleRevenue: "revenue",
		},
		RevenueByCategory: map[string]string{"Consulting": "consulting-revenue"},
	}

	id, ok := m.AccountIDFor(domain.RoleRevenue, "Consulting")
	assert.True(t, ok)
	assert.Equal(t, "consulting-revenue", id)

	id, ok = m.AccountIDFor(domain.RoleRevenue, "Retail")
	assert.True(t, ok)
	assert.Equal(t, "revenue", id)

	_, ok = m.AccountIDFor(domain.RoleCOGS, "")
	assert.False(t, ok)

	var nilMapping *domain.AccountRoleMapping
	_, ok = nilMapping.AccountIDFor(domain.RoleBank, "")
	assert.False(t, ok)
}
