package services

import "context"

// NumberingSvc generates human-facing journal entry numbers
type NumberingSvc interface {
	// NextNumber consumes and returns the next number. It never fails; a storage problem
	// yields a timestamp-derived fallback number.
	NextNumber(ctx context.Context) string

	// PreviewNext returns the next number without consuming it.
	PreviewNext(ctx context.Context) string

	// Reset clears the counter so the next call rebuilds it from existing entries.
	Reset(ctx context.Context) error
}
