package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BookkeepingType distinguishes cash-basis income from expense records.
type BookkeepingType string

const (
	BookkeepingIncome  BookkeepingType = "income"
	BookkeepingExpense BookkeepingType = "expense"
)

// BookkeepingEntry is a simple cash-basis income or expense record. It is not part of the ledger.
// Amounts that are missing or not numeric decode as invalid NullDecimals.
type BookkeepingEntry struct {
	ID          string              `json:"id"`
	Type        BookkeepingType     `json:"type"`
	Amount      decimal.NullDecimal `json:"amount"`
	Currency    string              `json:"currency"`
	Category    string              `json:"category"`
	Description string              `json:"description,omitempty"`
	COGS        decimal.NullDecimal `json:"cogs"`
	COGSPaid    decimal.NullDecimal `json:"cogsPaid"`
	CompanyID   string              `json:"companyId"`
	Date        time.Time           `json:"date"`
}

// UnmarshalJSON accepts amounts as numbers or strings and dates as RFC 3339 or YYYY-MM-DD.
func (b *BookkeepingEntry) UnmarshalJSON(data []byte) error {
	type alias BookkeepingEntry
	aux := struct {
		*alias
		Amount   json.RawMessage `json:"amount"`
		COGS     json.RawMessage `json:"cogs"`
		COGSPaid json.RawMessage `json:"cogsPaid"`
		Date     string          `json:"date"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.Amount = lenientDecimal(aux.Amount)
	b.COGS = lenientDecimal(aux.COGS)
	b.COGSPaid = lenientDecimal(aux.COGSPaid)
	if aux.Date != "" {
		date, err := ParseDate(aux.Date)
		if err != nil {
			return err
		}
		b.Date = date
	}
	return nil
}

func lenientDecimal(raw json.RawMessage) decimal.NullDecimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.NullDecimal{}
	}
	s := strings.Trim(string(raw), `"`)
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// FinancialSummary is the cash-basis summary over a set of bookkeeping entries.
type FinancialSummary struct {
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalCOGS       decimal.Decimal `json:"totalCogs"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	TotalCOGSPaid   decimal.Decimal `json:"totalCogsPaid"`
	AccountsPayable decimal.Decimal `json:"accountsPayable"`
	NetProfit       decimal.Decimal `json:"netProfit"`
	EntryCount      int             `json:"entryCount"`
}

// CategoryAmount is one row of an expense breakdown.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// PeriodPreset names a relative reporting period.
type PeriodPreset string

const (
	PeriodThisMonth PeriodPreset = "this-month"
	PeriodLastMonth PeriodPreset = "last-month"
	PeriodThisYear  PeriodPreset = "this-year"
	PeriodLastYear  PeriodPreset = "last-year"
	PeriodAllTime   PeriodPreset = "all-time"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// ParseDate parses an RFC 3339 timestamp or a plain YYYY-MM-DD date (as UTC midnight).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
}
