package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountString is a decimal amount as typed by the user. It accepts JSON strings and numbers.
type AmountString string

// UnmarshalJSON keeps numbers verbatim and unquotes strings.
func (a *AmountString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountString(s)
		return nil
	}
	*a = AmountString(data)
	return nil
}

// Decimal parses the amount, defaulting unparseable values to zero.
func (a AmountString) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(string(a))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CreateJournalEntryLineRequest is one line of a manual journal entry.
type CreateJournalEntryLineRequest struct {
	AccountID   string       `json:"accountId"`
	Description string       `json:"description"`
	Debit       AmountString `json:"debit"`
	Credit      AmountString `json:"credit"`
	Reference   string       `json:"reference,omitempty"`
}

// CreateJournalEntryRequest is the input for a manual journal entry.
type CreateJournalEntryRequest struct {
	Date        string                          `json:"date"`
	Description string                          `json:"description"`
	CompanyID   string                          `json:"companyId"`
	Reference   string                          `json:"reference,omitempty"`
	Status      string                          `json:"status,omitempty" validate:"omitempty,oneof=draft posted"`
	Lines       []CreateJournalEntryLineRequest `json:"lines"`
}

// ListJournalEntriesParams filters a journal entry listing. Empty fields match everything.
// A zero Limit returns every matching entry in one page.
type ListJournalEntriesParams struct {
	CompanyID string `json:"companyId,omitempty"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=draft posted reversed"`
	Limit     int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
	NextToken string `json:"nextToken,omitempty"`
}

// ListJournalEntriesResponse is one page of a journal entry listing.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntrySummary `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// JournalEntrySummary is the condensed form of an entry used in listings.
type JournalEntrySummary struct {
	ID           string             `json:"id"`
	EntryNumber  string             `json:"entryNumber"`
	Date         time.Time          `json:"date"`
	Description  string             `json:"description"`
	CompanyID    string             `json:"companyId"`
	Status       domain.EntryStatus `json:"status"`
	Source       domain.EntrySource `json:"source"`
	TotalDebits  decimal.Decimal    `json:"totalDebits"`
	TotalCredits decimal.Decimal    `json:"totalCredits"`
	IsBalanced   bool               `json:"isBalanced"`
}

// ToJournalEntrySummary converts a domain.JournalEntry to its listing form.
func ToJournalEntrySummary(e *domain.JournalEntry) JournalEntrySummary {
	return JournalEntrySummary{
		ID:           e.ID,
		EntryNumber:  e.EntryNumber,
		Date:         e.Date,
		Description:  e.Description,
		CompanyID:    e.CompanyID,
		Status:       e.Status,
		Source:       e.Source,
		TotalDebits:  e.TotalDebits,
		TotalCredits: e.TotalCredits,
		IsBalanced:   e.IsBalanced,
	}
}

// ToJournalEntrySummaries converts a slice of domain.JournalEntry to []JournalEntrySummary.
func ToJournalEntrySummaries(entries []domain.JournalEntry) []JournalEntrySummary {
	summaries := make([]JournalEntrySummary, len(entries))
	for i := range entries {
		summaries[i] = ToJournalEntrySummary(&entries[i])
	}
	return summaries
}

// ValidationResponse reports the problems found in an entry.
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems"`
}
