package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/platform/logging"
)

type numberingService struct {
	BaseService
	store portsrepo.DocumentStore
	now   func() time.Time
}

// NewNumberingService creates a NumberingSvc whose counter lives next to the entries in store.
func NewNumberingService(store portsrepo.DocumentStore) portssvc.NumberingSvc {
	return &numberingService{store: store, now: time.Now}
}

var _ portssvc.NumberingSvc = (*numberingService)(nil)

func (s *numberingService) NextNumber(ctx context.Context) string {
	var number string
	err := s.store.Update(ctx, func(doc portsrepo.DocumentTx) error {
		current, err := currentCounter(ctx, doc, func() ([]domain.JournalEntry, error) { return loadEntries(ctx, doc) })
		if err != nil {
			return err
		}
		next := current + 1
		if err := writeCounter(ctx, doc, next); err != nil {
			return err
		}
		number = domain.FormatEntryNumber(next)
		return nil
	})
	if err != nil {
		return fallbackEntryNumber(ctx, s.now(), err)
	}
	return number
}

func (s *numberingService) PreviewNext(ctx context.Context) string {
	current, err := currentCounter(ctx, s.store, func() ([]domain.JournalEntry, error) { return loadEntries(ctx, s.store) })
	if err != nil {
		return fallbackEntryNumber(ctx, s.now(), err)
	}
	return domain.FormatEntryNumber(current + 1)
}

func (s *numberingService) Reset(ctx context.Context) error {
	if err := s.store.Delete(ctx, portsrepo.JournalEntryCounterKey); err != nil {
		return asStorageError(err, "failed to reset journal entry counter")
	}
	s.LogInfo(ctx, "Journal entry counter reset")
	return nil
}

// currentCounter returns the last issued number: the stored counter or the highest JE- suffix
// among entries, whichever is larger. A missing or unreadable counter value is rebuilt from the
// entries alone; malformed numbers are ignored.
func currentCounter(ctx context.Context, r portsrepo.DocumentReader, entries func() ([]domain.JournalEntry, error)) (int64, error) {
	var stored int64
	raw, err := r.Get(ctx, portsrepo.JournalEntryCounterKey)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, &stored); jsonErr != nil || stored < 0 {
			stored = 0
			logging.FromContext(ctx).Warn("Journal entry counter is malformed, rebuilding", slog.String("value", string(raw)))
		}
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return 0, err
	}

	list, err := entries()
	if err != nil {
		return 0, err
	}
	return max(stored, maxEntryNumber(list)), nil
}

func maxEntryNumber(entries []domain.JournalEntry) int64 {
	var highest int64
	for _, e := range entries {
		if n, ok := domain.ParseEntryNumber(e.EntryNumber); ok && n > highest {
			highest = n
		}
	}
	return highest
}

func writeCounter(ctx context.Context, w portsrepo.DocumentWriter, n int64) error {
	return w.Put(ctx, portsrepo.JournalEntryCounterKey, []byte(strconv.FormatInt(n, 10)))
}

// fallbackEntryNumber keeps entry creation going when the counter is unavailable.
// The result is not guaranteed to be unique.
func fallbackEntryNumber(ctx context.Context, now time.Time, cause error) string {
	number := domain.EntryNumberPrefix + strconv.FormatInt(now.UnixMilli(), 10)
	logging.FromContext(ctx).Warn("Journal entry counter unavailable, using timestamp number",
		slog.String("number", number),
		slog.String("error", cause.Error()))
	return number
}
