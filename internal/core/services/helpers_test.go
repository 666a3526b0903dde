package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var (
	fixedNow  = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	testActor = domain.Actor{ID: "user-1", FullName: "Alice Example"}
)

func clock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// chartAccounts is the shared fixture: one account per conversion role plus a few extras.
func chartAccounts() []domain.Account {
	return []domain.Account{
		{ID: "bank", CompanyID: "1", Code: "1000", Name: "Bank Account", Type: domain.Assets, Category: "Cash", IsActive: true},
		{ID: "inventory", CompanyID: "1", Code: "1200", Name: "Inventory", Type: domain.Assets, Category: "Inventory", IsActive: true},
		{ID: "payable", CompanyID: "1", Code: "2000", Name: "Accounts Payable", Type: domain.Liabilities, IsActive: true},
		{ID: "equity", Code: "3000", Name: "Owner Equity", Type: domain.Equity, IsActive: true},
		{ID: "revenue", CompanyID: "1", Code: "4000", Name: "Revenue", Type: domain.Revenue, Category: "Sales", IsActive: true},
		{ID: "cogs", CompanyID: "1", Code: "5000", Name: "Cost of Goods Sold", Type: domain.Expense, Category: "COGS", IsActive: true},
		{ID: "rent", CompanyID: "1", Code: "6000", Name: "Rent Expense", Type: domain.Expense, Category: "Rent", IsActive: true},
	}
}

func line(accountID, debit, credit string) domain.JournalEntryLine {
	return domain.JournalEntryLine{ID: accountID + "-line", AccountID: accountID, Debit: dec(debit), Credit: dec(credit)}
}

// postedEntry builds a stored, posted entry for seeding the ledger.
func postedEntry(id, number, date, companyID string, lines ...domain.JournalEntryLine) domain.JournalEntry {
	e := domain.JournalEntry{
		ID:          id,
		EntryNumber: number,
		Date:        day(date),
		Description: "Entry " + id,
		CompanyID:   companyID,
		Lines:       lines,
		Source:      domain.SourceManual,
		Status:      domain.StatusPosted,
		CreatedBy:   testActor.ID,
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	}
	e.Recalculate()
	return e
}

// --- Mock AuditSink ---
type MockAuditSink struct {
	mock.Mock
}

var _ portsrepo.AuditSink = (*MockAuditSink)(nil)

func (m *MockAuditSink) Record(ctx context.Context, action domain.AuditAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func auditOf(kind domain.AuditActionKind, entityID string) interface{} {
	return mock.MatchedBy(func(a domain.AuditAction) bool {
		return a.Action == kind && a.EntityID == entityID && a.EntityType == domain.EntityJournalEntry
	})
}

// --- Mock ChartOfAccountsReader ---
type MockChart struct {
	mock.Mock
}

var _ portsrepo.ChartOfAccountsReader = (*MockChart)(nil)

func (m *MockChart) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

var errStoreDown = errors.New("store unavailable")

// failingStore fails every operation.
type failingStore struct{}

var _ portsrepo.DocumentStore = failingStore{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, errStoreDown }
func (failingStore) Put(ctx context.Context, key string, value []byte) error {
	return errStoreDown
}
func (failingStore) Delete(ctx context.Context, key string) error { return errStoreDown }
func (failingStore) Update(ctx context.Context, fn func(tx portsrepo.DocumentTx) error) error {
	return errStoreDown
}
func (failingStore) Close() error { return nil }

// readOnlyStore wraps a store so that every write fails while reads succeed.
type readOnlyStore struct {
	portsrepo.DocumentStore
}

func (s readOnlyStore) Put(ctx context.Context, key string, value []byte) error { return errStoreDown }
func (s readOnlyStore) Update(ctx context.Context, fn func(tx portsrepo.DocumentTx) error) error {
	return errStoreDown
}

// entriesWriteFailStore runs transactions normally but fails any write of the entry collection.
type entriesWriteFailStore struct {
	portsrepo.DocumentStore
}

func (s entriesWriteFailStore) Update(ctx context.Context, fn func(tx portsrepo.DocumentTx) error) error {
	return s.DocumentStore.Update(ctx, func(tx portsrepo.DocumentTx) error {
		return fn(entriesWriteFailTx{tx})
	})
}

type entriesWriteFailTx struct {
	portsrepo.DocumentTx
}

func (tx entriesWriteFailTx) Put(ctx context.Context, key string, value []byte) error {
	if key == portsrepo.JournalEntriesKey {
		return errStoreDown
	}
	return tx.DocumentTx.Put(ctx, key, value)
}
