package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/SscSPs/mma_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// journalService builds, posts and reverses journal entries. All writes go through the storage service.
type journalService struct {
	BaseService
	storage   portssvc.JournalStorageSvcFacade
	numbering portssvc.NumberingSvc
	resolver  portssvc.AccountResolverSvc
	chart     portsrepo.ChartOfAccountsReader
	audit     portsrepo.AuditSink
	now       func() time.Time
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithChartOfAccounts sets the chart used when a conversion is not given one.
func WithChartOfAccounts(chart portsrepo.ChartOfAccountsReader) JournalServiceOption {
	return func(s *journalService) {
		s.chart = chart
	}
}

// WithAuditSink sets where create/post/reverse actions are recorded.
func WithAuditSink(sink portsrepo.AuditSink) JournalServiceOption {
	return func(s *journalService) {
		s.audit = sink
	}
}

// WithJournalClock overrides the clock used for audit stamps.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(storage portssvc.JournalStorageSvcFacade, numbering portssvc.NumberingSvc, resolver portssvc.AccountResolverSvc, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		storage:   storage,
		numbering: numbering,
		resolver:  resolver,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.storage.GetByID(ctx, entryID)
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	if err := validate.Struct(params); err != nil {
		return nil, nil, apperrors.NewValidationError(err.Error())
	}
	var after *pagination.Cursor
	if params.NextToken != "" {
		cursor, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: " + err.Error())
		}
		after = &cursor
	}

	entries, err := s.storage.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	out := make([]domain.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if params.CompanyID != "" && e.CompanyID != params.CompanyID {
			continue
		}
		if params.Status != "" && string(e.Status) != params.Status {
			continue
		}
		// Newest first, so the next page holds entries sorting before the cursor.
		if after != nil && pagination.Compare(entryCursor(e), *after) >= 0 {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return pagination.Compare(entryCursor(out[i]), entryCursor(out[j])) > 0
	})

	if params.Limit <= 0 || len(out) <= params.Limit {
		return out, nil, nil
	}
	out = out[:params.Limit]
	token := pagination.EncodeToken(entryCursor(out[len(out)-1]))
	return out, &token, nil
}

func entryCursor(e domain.JournalEntry) pagination.Cursor {
	return pagination.Cursor{Date: e.Date, CreatedAt: e.CreatedAt, ID: e.ID}
}

func (s *journalService) PreviewNextNumber(ctx context.Context) (string, error) {
	return s.numbering.PreviewNext(ctx), nil
}

func (s *journalService) ValidateEntry(entry domain.JournalEntry) []string {
	return validateJournalEntry(entry)
}

// CreateFromForm validates line-item input and persists it as a new entry.
func (s *journalService) CreateFromForm(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if len(req.Lines) < 2 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("too few lines: a journal entry needs at least 2, got %d", len(req.Lines)))
	}

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	totalDebits, totalCredits := decimal.Zero, decimal.Zero
	for i, l := range req.Lines {
		lines[i] = domain.JournalEntryLine{
			ID:          uuid.NewString(),
			AccountID:   strings.TrimSpace(l.AccountID),
			Description: l.Description,
			Debit:       l.Debit.Decimal().Round(2),
			Credit:      l.Credit.Decimal().Round(2),
			Reference:   l.Reference,
		}
		totalDebits = totalDebits.Add(lines[i].Debit)
		totalCredits = totalCredits.Add(lines[i].Credit)
	}
	if !domain.WithinTolerance(totalDebits, totalCredits) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("entry is not balanced: debits %s, credits %s",
			totalDebits.StringFixed(2), totalCredits.StringFixed(2)))
	}

	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := domain.ParseDate(req.Date)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		date = parsed
	}

	now := s.now()
	entry := domain.JournalEntry{
		ID:                 uuid.NewString(),
		Date:               date,
		Description:        strings.TrimSpace(req.Description),
		Reference:          req.Reference,
		CompanyID:          req.CompanyID,
		Lines:              lines,
		Source:             domain.SourceManual,
		Status:             domain.StatusDraft,
		CreatedBy:          actor.ID,
		CreatedByName:      actor.FullName,
		LastModifiedBy:     actor.ID,
		LastModifiedByName: actor.FullName,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	entry.Recalculate()
	if req.Status == string(domain.StatusPosted) {
		entry.StampPosted(actor, now)
	}

	if problems := validateJournalEntry(entry); len(problems) > 0 {
		return nil, apperrors.NewValidationError(problems...)
	}

	if err := s.storage.Transact(ctx, func(tx portssvc.LedgerTx) error {
		return tx.Add(ctx, &entry)
	}); err != nil {
		s.LogError(ctx, err, "Failed to persist journal entry", slog.String("entry_id", entry.ID))
		return nil, asStorageError(err, "failed to create journal entry")
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.ID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("status", string(entry.Status)))
	s.recordAudit(ctx, actor, domain.AuditCreate, entry, fmt.Sprintf("Created journal entry %s", entry.EntryNumber))
	if entry.Status == domain.StatusPosted {
		s.recordAudit(ctx, actor, domain.AuditPost, entry, fmt.Sprintf("Posted journal entry %s", entry.EntryNumber))
	}
	return &entry, nil
}

// ConvertFromBookkeepingEntry maps a cash-basis record onto a posted double-entry journal entry.
func (s *journalService) ConvertFromBookkeepingEntry(ctx context.Context, actor domain.Actor, record domain.BookkeepingEntry, chart []domain.Account) (*domain.JournalEntry, error) {
	if !record.Amount.Valid || !record.Amount.Decimal.IsPositive() {
		return nil, apperrors.NewValidationError("bookkeeping entry amount must be a positive number")
	}
	if record.Type != domain.BookkeepingIncome && record.Type != domain.BookkeepingExpense {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown bookkeeping entry type %q", record.Type))
	}

	if chart == nil {
		if s.chart == nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfiguration, "no chart of accounts configured", nil)
		}
		loaded, err := s.chart.ListAccounts(ctx, record.CompanyID)
		if err != nil {
			return nil, err
		}
		chart = loaded
	}

	resolve := func(role domain.AccountRole) (*domain.Account, error) {
		return s.resolver.Resolve(ctx, record.CompanyID, role, record.Category, chart)
	}
	amount := record.Amount.Decimal
	desc := record.Description
	if desc == "" {
		desc = record.Category
	}

	var lines []domain.JournalEntryLine
	var source domain.EntrySource
	var description string
	switch record.Type {
	case domain.BookkeepingIncome:
		source = domain.SourceAutoIncome
		description = "Income: " + desc
		bank, err := resolve(domain.RoleBank)
		if err != nil {
			return nil, err
		}
		revenue, err := resolve(domain.RoleRevenue)
		if err != nil {
			return nil, err
		}
		lines = append(lines,
			debitLine(bank.ID, description, amount),
			creditLine(revenue.ID, description, amount))

		if record.COGS.Valid && record.COGS.Decimal.IsPositive() {
			cogs, err := resolve(domain.RoleCOGS)
			if err != nil {
				return nil, err
			}
			inventory, err := resolve(domain.RoleInventory)
			if err != nil {
				return nil, err
			}
			lines = append(lines,
				debitLine(cogs.ID, "Cost of goods sold: "+desc, record.COGS.Decimal),
				creditLine(inventory.ID, "Cost of goods sold: "+desc, record.COGS.Decimal))
		}
	case domain.BookkeepingExpense:
		source = domain.SourceAutoExpense
		description = "Expense: " + desc
		expense, err := resolve(domain.RoleExpense)
		if err != nil {
			return nil, err
		}
		bank, err := resolve(domain.RoleBank)
		if err != nil {
			return nil, err
		}
		lines = append(lines,
			debitLine(expense.ID, description, amount),
			creditLine(bank.ID, description, amount))
	}

	now := s.now()
	date := record.Date
	if date.IsZero() {
		date = now
	}
	entry := domain.JournalEntry{
		ID:            uuid.NewString(),
		Date:          date,
		Description:   description,
		CompanyID:     record.CompanyID,
		Lines:         lines,
		Source:        source,
		SourceID:      record.ID,
		Status:        domain.StatusDraft,
		CreatedBy:     actor.ID,
		CreatedByName: actor.FullName,
		CreatedAt:     now,
	}
	entry.Recalculate()
	entry.StampPosted(actor, now)

	if problems := validateJournalEntry(entry); len(problems) > 0 {
		return nil, apperrors.NewValidationError(problems...)
	}

	err := s.storage.Transact(ctx, func(tx portssvc.LedgerTx) error {
		if record.ID != "" {
			for _, existing := range tx.Entries() {
				if existing.SourceID == record.ID && existing.Source != domain.SourceManual {
					return apperrors.NewAppError(apperrors.ErrDuplicate,
						fmt.Sprintf("bookkeeping entry %s was already converted to %s", record.ID, existing.EntryNumber), nil)
				}
			}
		}
		return tx.Add(ctx, &entry)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to persist converted journal entry", slog.String("source_id", record.ID))
		return nil, asStorageError(err, "failed to convert bookkeeping entry")
	}

	s.LogInfo(ctx, "Bookkeeping entry converted",
		slog.String("entry_id", entry.ID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("source_id", record.ID))
	s.recordAudit(ctx, actor, domain.AuditCreate, entry, fmt.Sprintf("Created journal entry %s from %s entry %s", entry.EntryNumber, record.Type, record.ID))
	s.recordAudit(ctx, actor, domain.AuditPost, entry, fmt.Sprintf("Posted journal entry %s", entry.EntryNumber))
	return &entry, nil
}

func debitLine(accountID, description string, amount decimal.Decimal) domain.JournalEntryLine {
	return domain.JournalEntryLine{ID: uuid.NewString(), AccountID: accountID, Description: description, Debit: amount, Credit: decimal.Zero}
}

func creditLine(accountID, description string, amount decimal.Decimal) domain.JournalEntryLine {
	return domain.JournalEntryLine{ID: uuid.NewString(), AccountID: accountID, Description: description, Debit: decimal.Zero, Credit: amount}
}

// PostEntry moves a draft entry to posted in place.
func (s *journalService) PostEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	var posted domain.JournalEntry
	alreadyPosted := false

	err := s.storage.Transact(ctx, func(tx portssvc.LedgerTx) error {
		entry, ok := tx.Find(entryID)
		if !ok {
			return apperrors.NewAppError(apperrors.ErrStateTransition, "cannot post entry",
				apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s", entryID)))
		}
		switch entry.Status {
		case domain.StatusPosted:
			alreadyPosted = true
			posted = *entry
			return nil
		case domain.StatusReversed:
			return apperrors.NewAppError(apperrors.ErrStateTransition,
				fmt.Sprintf("journal entry %s is already reversed", entry.EntryNumber), nil)
		}
		entry.Recalculate()
		if !entry.IsBalanced {
			return apperrors.NewAppError(apperrors.ErrStateTransition,
				fmt.Sprintf("journal entry %s is not balanced: debits %s, credits %s",
					entry.EntryNumber, entry.TotalDebits.StringFixed(2), entry.TotalCredits.StringFixed(2)), nil)
		}
		entry.StampPosted(actor, s.now())
		posted = *entry
		return tx.Replace(*entry)
	})
	if err != nil {
		return nil, err
	}

	if alreadyPosted {
		s.LogDebug(ctx, "Journal entry already posted", slog.String("entry_id", entryID))
		return &posted, nil
	}
	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entryID), slog.String("entry_number", posted.EntryNumber))
	s.recordAudit(ctx, actor, domain.AuditPost, posted, fmt.Sprintf("Posted journal entry %s", posted.EntryNumber))
	return &posted, nil
}

// ReverseEntry mirrors a posted entry and marks the original reversed, in one transaction.
func (s *journalService) ReverseEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) (*domain.JournalEntry, error) {
	var original, reversal domain.JournalEntry

	err := s.storage.Transact(ctx, func(tx portssvc.LedgerTx) error {
		entry, ok := tx.Find(entryID)
		if !ok {
			return apperrors.NewAppError(apperrors.ErrStateTransition, "cannot reverse entry",
				apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s", entryID)))
		}
		if entry.ReversalEntryID != "" {
			return apperrors.NewAppError(apperrors.ErrStateTransition,
				fmt.Sprintf("journal entry %s was already reversed by %s", entry.EntryNumber, entry.ReversalEntryID), nil)
		}
		if entry.Status != domain.StatusPosted {
			return apperrors.NewAppError(apperrors.ErrStateTransition,
				fmt.Sprintf("only posted entries can be reversed; %s is %s", entry.EntryNumber, entry.Status), nil)
		}

		now := s.now()
		reversal = mirrorEntry(*entry, actor, reason, now)
		if err := tx.Add(ctx, &reversal); err != nil {
			return err
		}

		entry.Status = domain.StatusReversed
		entry.ReversalEntryID = reversal.ID
		entry.ReversedBy = actor.ID
		entry.ReversedByName = actor.FullName
		entry.ReversedAt = &now
		entry.StampModified(actor, now)
		original = *entry
		return tx.Replace(*entry)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", original.ID),
		slog.String("reversal_id", reversal.ID),
		slog.String("reversal_number", reversal.EntryNumber))
	details := fmt.Sprintf("Reversed journal entry %s with %s", original.EntryNumber, reversal.EntryNumber)
	if reason != "" {
		details += ": " + reason
	}
	s.recordAudit(ctx, actor, domain.AuditReverse, original, details)
	s.recordAudit(ctx, actor, domain.AuditCreate, reversal, fmt.Sprintf("Created reversal entry %s for %s", reversal.EntryNumber, original.EntryNumber))
	return &reversal, nil
}

// mirrorEntry swaps debit and credit on every line of original.
func mirrorEntry(original domain.JournalEntry, actor domain.Actor, reason string, now time.Time) domain.JournalEntry {
	lines := make([]domain.JournalEntryLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = domain.JournalEntryLine{
			ID:          uuid.NewString(),
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Reference:   l.Reference,
		}
	}

	description := "REVERSAL: " + original.Description
	if reason = strings.TrimSpace(reason); reason != "" {
		description += " (Reason: " + reason + ")"
	}
	reversal := domain.JournalEntry{
		ID:            uuid.NewString(),
		Date:          domain.TruncateDay(now),
		Description:   description,
		Reference:     "REV-" + original.EntryNumber,
		CompanyID:     original.CompanyID,
		Lines:         lines,
		Source:        domain.SourceManual,
		SourceID:      original.ID,
		Status:        domain.StatusDraft,
		CreatedBy:     actor.ID,
		CreatedByName: actor.FullName,
		CreatedAt:     now,
	}
	reversal.Recalculate()
	reversal.StampPosted(actor, now)
	return reversal
}

// recordAudit is fire-and-forget: failures are logged and never returned.
func (s *journalService) recordAudit(ctx context.Context, actor domain.Actor, kind domain.AuditActionKind, entry domain.JournalEntry, details string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, domain.AuditAction{
		ID:         uuid.NewString(),
		Action:     kind,
		EntityType: domain.EntityJournalEntry,
		EntityID:   entry.ID,
		CompanyID:  entry.CompanyID,
		ActorID:    actor.ID,
		ActorName:  actor.FullName,
		Details:    details,
		OccurredAt: s.now(),
	})
	if err != nil {
		s.LogWarn(ctx, "Failed to record audit action",
			slog.String("action", string(kind)),
			slog.String("entry_id", entry.ID),
			slog.String("error", err.Error()))
	}
}
