package services

import (
	"context"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// LedgerTx is the ledger view inside a storage transaction. Changes made through it
// are validated and written together when the transaction function returns nil.
type LedgerTx interface {
	// Entries returns the loaded collection. Callers must not modify it directly.
	Entries() []domain.JournalEntry

	// Find returns a copy of the entry with the given ID.
	Find(entryID string) (*domain.JournalEntry, bool)

	// Add appends a new entry, assigning an entry number when it has none.
	Add(ctx context.Context, entry *domain.JournalEntry) error

	// Replace overwrites the stored entry with the same ID.
	Replace(entry domain.JournalEntry) error

	// Delete removes the entry with the given ID. Its number is never reused.
	Delete(entryID string) error

	// NextEntryNumber consumes the next journal number within this transaction.
	NextEntryNumber(ctx context.Context) string
}

// JournalStorageReaderSvc defines read operations on the persisted ledger
type JournalStorageReaderSvc interface {
	GetAll(ctx context.Context) ([]domain.JournalEntry, error)
	GetByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	GetByCompany(ctx context.Context, companyID string) ([]domain.JournalEntry, error)

	// GetByPeriod returns posted entries dated within [start, end]. An empty companyID matches every company.
	GetByPeriod(ctx context.Context, start, end time.Time, companyID string) ([]domain.JournalEntry, error)
	GetByStatus(ctx context.Context, status domain.EntryStatus) ([]domain.JournalEntry, error)
}

// JournalStorageWriterSvc defines write operations on the persisted ledger
type JournalStorageWriterSvc interface {
	SaveAll(ctx context.Context, entries []domain.JournalEntry) error
	Add(ctx context.Context, entry *domain.JournalEntry) error
	Update(ctx context.Context, entry domain.JournalEntry) error
	Delete(ctx context.Context, entryID string) error

	// Transact runs fn against the ledger inside one store transaction.
	Transact(ctx context.Context, fn func(tx LedgerTx) error) error
}

// JournalBackupSvc defines snapshot operations on the persisted ledger
type JournalBackupSvc interface {
	CreateBackup(ctx context.Context) (*domain.JournalBackup, error)

	// RestoreFromBackup replaces the ledger with the payload's entries after validating it.
	RestoreFromBackup(ctx context.Context, payload []byte) error
}

// JournalStorageSvcFacade combines all ledger storage interfaces
type JournalStorageSvcFacade interface {
	JournalStorageReaderSvc
	JournalStorageWriterSvc
	JournalBackupSvc
}
