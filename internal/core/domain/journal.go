package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	StatusDraft    EntryStatus = "draft"
	StatusPosted   EntryStatus = "posted"
	StatusReversed EntryStatus = "reversed"
)

// EntrySource records how a journal entry came into existence.
type EntrySource string

const (
	SourceManual      EntrySource = "manual"
	SourceAutoIncome  EntrySource = "auto-income"
	SourceAutoExpense EntrySource = "auto-expense"
)

// EntryNumberPrefix is the user-facing prefix of every journal entry number.
const EntryNumberPrefix = "JE-"

// BalanceTolerance is the largest debit/credit difference still considered balanced (exclusive).
var BalanceTolerance = decimal.New(1, -2)

// JournalEntryLine is a single debit or credit against one account.
type JournalEntryLine struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Reference   string          `json:"reference,omitempty"`
}

// JournalEntry is a balanced set of lines recorded as one accounting event.
type JournalEntry struct {
	ID          string             `json:"id"`
	EntryNumber string             `json:"entryNumber"`
	Date        time.Time          `json:"date"`
	Description string             `json:"description"`
	Reference   string             `json:"reference,omitempty"`
	CompanyID   string             `json:"companyId"`
	Lines       []JournalEntryLine `json:"lines"`

	// Derived from Lines; recomputed on every load.
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	IsBalanced   bool            `json:"isBalanced"`

	Source   EntrySource `json:"source"`
	SourceID string      `json:"sourceId,omitempty"`
	Status   EntryStatus `json:"status"`

	ReversalEntryID string     `json:"reversalEntryId,omitempty"`
	ReversedBy      string     `json:"reversedBy,omitempty"`
	ReversedByName  string     `json:"reversedByName,omitempty"`
	ReversedAt      *time.Time `json:"reversedAt,omitempty"`

	CreatedBy          string     `json:"createdBy"`
	CreatedByName      string     `json:"createdByName"`
	ApprovedBy         string     `json:"approvedBy,omitempty"`
	ApprovedByName     string     `json:"approvedByName,omitempty"`
	ApprovedAt         *time.Time `json:"approvedAt,omitempty"`
	PostedBy           string     `json:"postedBy,omitempty"`
	PostedByName       string     `json:"postedByName,omitempty"`
	PostedAt           *time.Time `json:"postedAt,omitempty"`
	LastModifiedBy     string     `json:"lastModifiedBy"`
	LastModifiedByName string     `json:"lastModifiedByName"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Recalculate re-derives TotalDebits, TotalCredits and IsBalanced from the lines.
func (e *JournalEntry) Recalculate() {
	debits, credits := decimal.Zero, decimal.Zero
	for _, line := range e.Lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	e.TotalDebits = debits.Round(2)
	e.TotalCredits = credits.Round(2)
	e.IsBalanced = WithinTolerance(e.TotalDebits, e.TotalCredits)
}

// StampPosted marks the entry approved and posted by actor at the given time.
// Approval is only stamped if the entry has not been approved yet.
func (e *JournalEntry) StampPosted(actor Actor, at time.Time) {
	if e.ApprovedBy == "" {
		e.ApprovedBy = actor.ID
		e.ApprovedByName = actor.FullName
		e.ApprovedAt = &at
	}
	e.PostedBy = actor.ID
	e.PostedByName = actor.FullName
	e.PostedAt = &at
	e.Status = StatusPosted
	e.StampModified(actor, at)
}

// StampModified records actor as the last modifier.
func (e *JournalEntry) StampModified(actor Actor, at time.Time) {
	e.LastModifiedBy = actor.ID
	e.LastModifiedByName = actor.FullName
	e.UpdatedAt = at
}

// WithinTolerance reports whether |a - b| < BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(BalanceTolerance)
}

// FormatEntryNumber renders n as JE-NNN, zero-padded to at least three digits.
func FormatEntryNumber(n int64) string {
	return fmt.Sprintf("%s%03d", EntryNumberPrefix, n)
}

// ParseEntryNumber extracts the numeric suffix of a JE- number. Malformed numbers return false.
func ParseEntryNumber(s string) (int64, bool) {
	suffix, ok := strings.CutPrefix(s, EntryNumberPrefix)
	if !ok || suffix == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
