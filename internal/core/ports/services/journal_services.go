package services

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntry retrieves a journal entry by its ID.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries lists journal entries filtered by company and status, newest first.
	// It returns a token for the next page when params.Limit cuts the listing short.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error)

	// PreviewNextNumber returns the number the next entry would receive without consuming it.
	PreviewNextNumber(ctx context.Context) (string, error)
}

// JournalWriterSvc defines write operations for journal entries
type JournalWriterSvc interface {
	// CreateFromForm validates and persists a manual entry built from line-item input.
	CreateFromForm(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)

	// ConvertFromBookkeepingEntry turns a cash-basis income/expense record into a posted journal entry.
	// A nil chart is loaded from the configured chart of accounts.
	ConvertFromBookkeepingEntry(ctx context.Context, actor domain.Actor, entry domain.BookkeepingEntry, chart []domain.Account) (*domain.JournalEntry, error)

	// PostEntry moves a draft entry to posted. Posting an already posted entry is a no-op.
	PostEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error)

	// ReverseEntry creates the mirror entry of a posted entry and marks the original reversed.
	// It returns the new reversal entry.
	ReverseEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) (*domain.JournalEntry, error)
}

// JournalValidatorSvc checks journal entry integrity
type JournalValidatorSvc interface {
	// ValidateEntry returns every violated rule; an empty slice means the entry is valid.
	ValidateEntry(entry domain.JournalEntry) []string
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalValidatorSvc
}
