package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/platform/logging"
	"github.com/google/uuid"
)

// journalStorageService owns the persisted journal entry collection.
type journalStorageService struct {
	BaseService
	store        portsrepo.DocumentStore
	strictWrites bool
	now          func() time.Time
}

// StorageOption is a functional option for configuring the storage service
type StorageOption func(*journalStorageService)

// WithStrictWrites makes the write path reject collections that fail validation
// instead of logging a warning and writing anyway.
func WithStrictWrites(strict bool) StorageOption {
	return func(s *journalStorageService) {
		s.strictWrites = strict
	}
}

// WithStorageClock overrides the clock used for backup timestamps and fallback numbers.
func WithStorageClock(now func() time.Time) StorageOption {
	return func(s *journalStorageService) {
		s.now = now
	}
}

// NewJournalStorageService creates a storage service over store.
func NewJournalStorageService(store portsrepo.DocumentStore, options ...StorageOption) portssvc.JournalStorageSvcFacade {
	svc := &journalStorageService{
		store: store,
		now:   time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalStorageSvcFacade = (*journalStorageService)(nil)

// loadEntries reads the collection, normalizing legacy shapes and re-deriving totals.
func loadEntries(ctx context.Context, r portsrepo.DocumentReader) ([]domain.JournalEntry, error) {
	raw, err := r.Get(ctx, portsrepo.JournalEntriesKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.JournalEntry{}, nil
		}
		return nil, asStorageError(err, "failed to read journal entries")
	}

	entries := decodeEntries(ctx, raw)
	for i := range entries {
		entries[i].Recalculate()
	}
	return entries, nil
}

// decodeEntries accepts either a JSON array or the legacy keyed object ({"0": {...}, "1": {...}}).
// Anything else decodes as an empty collection.
func decodeEntries(ctx context.Context, raw []byte) []domain.JournalEntry {
	logger := logging.FromContext(ctx)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []domain.JournalEntry{}
	}

	switch raw[0] {
	case '[':
		var entries []domain.JournalEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			logger.Warn("Journal entries are corrupt, loading an empty ledger", slog.String("error", err.Error()))
			return []domain.JournalEntry{}
		}
		return entries
	case '{':
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keyed); err != nil {
			logger.Warn("Journal entries are corrupt, loading an empty ledger", slog.String("error", err.Error()))
			return []domain.JournalEntry{}
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sortLegacyKeys(keys)

		entries := make([]domain.JournalEntry, 0, len(keys))
		for _, k := range keys {
			var entry domain.JournalEntry
			if err := json.Unmarshal(keyed[k], &entry); err != nil {
				logger.Warn("Legacy journal entry object is corrupt, loading an empty ledger",
					slog.String("key", k), slog.String("error", err.Error()))
				return []domain.JournalEntry{}
			}
			entries = append(entries, entry)
		}
		logger.Warn("Converted legacy keyed journal entry collection", slog.Int("entries", len(entries)))
		return entries
	default:
		logger.Warn("Journal entries have an unknown shape, loading an empty ledger")
		return []domain.JournalEntry{}
	}
}

// sortLegacyKeys orders numeric keys ascending, followed by the rest lexically.
func sortLegacyKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.ParseInt(keys[i], 10, 64)
		b, bErr := strconv.ParseInt(keys[j], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}

// checkCollection runs entry validation over every entry, prefixing problems with the entry number.
func checkCollection(entries []domain.JournalEntry) []string {
	var problems []string
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		label := entry.EntryNumber
		if label == "" {
			label = entry.ID
		}
		if entry.ID == "" {
			problems = append(problems, fmt.Sprintf("%s: id is required", label))
		} else if seen[entry.ID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate id %s", label, entry.ID))
		}
		seen[entry.ID] = true
		for _, p := range validateJournalEntry(entry) {
			problems = append(problems, fmt.Sprintf("%s: %s", label, p))
		}
	}
	return problems
}

// persist validates and writes the whole collection.
func (s *journalStorageService) persist(ctx context.Context, w portsrepo.DocumentWriter, entries []domain.JournalEntry) error {
	if problems := checkCollection(entries); len(problems) > 0 {
		if s.strictWrites {
			return apperrors.NewValidationError(problems...)
		}
		s.LogWarn(ctx, "Writing journal entries that fail validation",
			slog.Int("problems", len(problems)),
			slog.Any("details", problems))
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "failed to encode journal entries", err)
	}
	if err := w.Put(ctx, portsrepo.JournalEntriesKey, data); err != nil {
		return asStorageError(err, "failed to write journal entries")
	}
	return nil
}

// asStorageError wraps untyped errors as ErrStorage, leaving domain errors untouched.
func asStorageError(err error, msg string) error {
	var appErr *apperrors.AppError
	var valErr *apperrors.ValidationError
	if errors.As(err, &appErr) || errors.As(err, &valErr) {
		return err
	}
	return apperrors.NewAppError(apperrors.ErrStorage, msg, err)
}

func (s *journalStorageService) Transact(ctx context.Context, fn func(tx portssvc.LedgerTx) error) error {
	err := s.store.Update(ctx, func(doc portsrepo.DocumentTx) error {
		entries, err := loadEntries(ctx, doc)
		if err != nil {
			return err
		}
		tx := &ledgerTx{svc: s, doc: doc, entries: entries}
		if err := fn(tx); err != nil {
			return err
		}
		if !tx.dirty {
			return nil
		}
		return s.persist(ctx, doc, tx.entries)
	})
	if err != nil {
		return asStorageError(err, "journal transaction failed")
	}
	return nil
}

func (s *journalStorageService) GetAll(ctx context.Context) ([]domain.JournalEntry, error) {
	return loadEntries(ctx, s.store)
}

func (s *journalStorageService) GetByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entries, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == entryID {
			return &entries[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s", entryID))
}

func (s *journalStorageService) GetByCompany(ctx context.Context, companyID string) ([]domain.JournalEntry, error) {
	return s.filter(ctx, func(e domain.JournalEntry) bool { return e.CompanyID == companyID })
}

func (s *journalStorageService) GetByPeriod(ctx context.Context, start, end time.Time, companyID string) ([]domain.JournalEntry, error) {
	return s.filter(ctx, func(e domain.JournalEntry) bool {
		return e.Status == domain.StatusPosted &&
			(companyID == "" || e.CompanyID == companyID) &&
			domain.WithinDays(e.Date, start, end)
	})
}

func (s *journalStorageService) GetByStatus(ctx context.Context, status domain.EntryStatus) ([]domain.JournalEntry, error) {
	return s.filter(ctx, func(e domain.JournalEntry) bool { return e.Status == status })
}

func (s *journalStorageService) filter(ctx context.Context, keep func(domain.JournalEntry) bool) ([]domain.JournalEntry, error) {
	entries, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *journalStorageService) SaveAll(ctx context.Context, entries []domain.JournalEntry) error {
	normalized := make([]domain.JournalEntry, len(entries))
	copy(normalized, entries)
	for i := range normalized {
		normalized[i].Recalculate()
	}
	err := s.store.Update(ctx, func(doc portsrepo.DocumentTx) error {
		return s.persist(ctx, doc, normalized)
	})
	if err != nil {
		return asStorageError(err, "failed to save journal entries")
	}
	return nil
}

func (s *journalStorageService) Add(ctx context.Context, entry *domain.JournalEntry) error {
	return s.Transact(ctx, func(tx portssvc.LedgerTx) error {
		return tx.Add(ctx, entry)
	})
}

func (s *journalStorageService) Update(ctx context.Context, entry domain.JournalEntry) error {
	return s.Transact(ctx, func(tx portssvc.LedgerTx) error {
		return tx.Replace(entry)
	})
}

func (s *journalStorageService) Delete(ctx context.Context, entryID string) error {
	return s.Transact(ctx, func(tx portssvc.LedgerTx) error {
		return tx.Delete(entryID)
	})
}

func (s *journalStorageService) CreateBackup(ctx context.Context) (*domain.JournalBackup, error) {
	entries, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.JournalBackup{
		Timestamp: s.now().UTC(),
		Version:   domain.BackupVersion,
		Type:      domain.BackupType,
		Data:      entries,
	}, nil
}

func (s *journalStorageService) RestoreFromBackup(ctx context.Context, payload []byte) error {
	var backup struct {
		Type    string          `json:"type"`
		Version string          `json:"version"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &backup); err != nil {
		return apperrors.NewValidationError("backup is not valid JSON: " + err.Error())
	}
	if backup.Type != domain.BackupType {
		return apperrors.NewValidationError(fmt.Sprintf("backup type %q is not %q", backup.Type, domain.BackupType))
	}
	data := bytes.TrimSpace(backup.Data)
	if len(data) == 0 || data[0] != '[' {
		return apperrors.NewValidationError("backup data must be a list of journal entries")
	}

	var entries []domain.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return apperrors.NewValidationError("backup data is malformed: " + err.Error())
	}
	for i := range entries {
		entries[i].Recalculate()
	}
	if problems := checkCollection(entries); len(problems) > 0 {
		return apperrors.NewValidationError(problems...)
	}
	if backup.Version != domain.BackupVersion {
		s.LogWarn(ctx, "Restoring backup with unexpected version", slog.String("version", backup.Version))
	}

	err := s.store.Update(ctx, func(doc portsrepo.DocumentTx) error {
		if err := s.persist(ctx, doc, entries); err != nil {
			return err
		}
		// The counter is rebuilt from the restored numbers on next use.
		return doc.Delete(ctx, portsrepo.JournalEntryCounterKey)
	})
	if err != nil {
		return asStorageError(err, "failed to restore journal entries")
	}
	s.LogInfo(ctx, "Journal entries restored from backup", slog.Int("entries", len(entries)))
	return nil
}

// ledgerTx is the LedgerTx handed to Transact callbacks.
type ledgerTx struct {
	svc     *journalStorageService
	doc     portsrepo.DocumentTx
	entries []domain.JournalEntry
	dirty   bool
}

func (t *ledgerTx) Entries() []domain.JournalEntry {
	return t.entries
}

func (t *ledgerTx) indexOf(entryID string) int {
	for i := range t.entries {
		if t.entries[i].ID == entryID {
			return i
		}
	}
	return -1
}

func (t *ledgerTx) Find(entryID string) (*domain.JournalEntry, bool) {
	i := t.indexOf(entryID)
	if i < 0 {
		return nil, false
	}
	entry := t.entries[i]
	entry.Lines = append([]domain.JournalEntryLine(nil), entry.Lines...)
	return &entry, true
}

func (t *ledgerTx) Add(ctx context.Context, entry *domain.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if t.indexOf(entry.ID) >= 0 {
		return apperrors.NewAppError(apperrors.ErrDuplicate, fmt.Sprintf("journal entry %s already exists", entry.ID), nil)
	}
	if entry.EntryNumber == "" {
		entry.EntryNumber = t.NextEntryNumber(ctx)
	}
	entry.Recalculate()
	t.entries = append(t.entries, *entry)
	t.dirty = true
	return nil
}

func (t *ledgerTx) Replace(entry domain.JournalEntry) error {
	i := t.indexOf(entry.ID)
	if i < 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s", entry.ID))
	}
	entry.Recalculate()
	t.entries[i] = entry
	t.dirty = true
	return nil
}

func (t *ledgerTx) Delete(entryID string) error {
	i := t.indexOf(entryID)
	if i < 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s", entryID))
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	t.dirty = true
	return nil
}

func (t *ledgerTx) NextEntryNumber(ctx context.Context) string {
	current, err := currentCounter(ctx, t.doc, func() ([]domain.JournalEntry, error) { return t.entries, nil })
	if err != nil {
		return fallbackEntryNumber(ctx, t.svc.now(), err)
	}
	next := current + 1
	if err := writeCounter(ctx, t.doc, next); err != nil {
		return fallbackEntryNumber(ctx, t.svc.now(), err)
	}
	return domain.FormatEntryNumber(next)
}
