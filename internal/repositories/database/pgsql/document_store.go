package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/mma_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ledgerLockKey is the advisory lock that serializes ledger read-modify-write transactions.
const ledgerLockKey int64 = 0x4d4d414c

// PgxDocumentStore keeps ledger documents as JSONB rows in ledger_documents.
type PgxDocumentStore struct {
	BaseRepository
}

// NewDocumentStore creates a document store on top of an existing pool.
func NewDocumentStore(pool *pgxpool.Pool) *PgxDocumentStore {
	return &PgxDocumentStore{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDocumentStore implements portsrepo.DocumentStore
var _ portsrepo.DocumentStore = (*PgxDocumentStore)(nil)

func (s *PgxDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	return getDocument(ctx, s.Pool, key)
}

func (s *PgxDocumentStore) Put(ctx context.Context, key string, value []byte) error {
	return s.Update(ctx, func(tx portsrepo.DocumentTx) error {
		return tx.Put(ctx, key, value)
	})
}

func (s *PgxDocumentStore) Delete(ctx context.Context, key string) error {
	return s.Update(ctx, func(tx portsrepo.DocumentTx) error {
		return tx.Delete(ctx, key)
	})
}

// Update runs fn inside a transaction holding the ledger advisory lock.
func (s *PgxDocumentStore) Update(ctx context.Context, fn func(tx portsrepo.DocumentTx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := s.Rollback(ctx, tx); rbErr != nil {
			slog.Default().Warn("Failed to roll back ledger transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return apperrors.NewAppError(apperrors.ErrStorage, "failed to acquire ledger lock", err)
	}

	if err := fn(&pgxDocumentTx{tx: tx}); err != nil {
		return err
	}

	return s.Commit(ctx, tx)
}

// Close is a no-op; the pool is owned by the caller.
func (s *PgxDocumentStore) Close() error { return nil }

// rowQueryer is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQueryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getDocument(ctx context.Context, q rowQueryer, key string) ([]byte, error) {
	var doc models.LedgerDocument
	err := q.QueryRow(ctx, `SELECT doc_key, doc_value, updated_at FROM ledger_documents WHERE doc_key = $1`, key).
		Scan(&doc.Key, &doc.Value, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %s", key))
	}
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrStorage, fmt.Sprintf("failed to read document %s", key), err)
	}
	return doc.Value, nil
}

type pgxDocumentTx struct {
	tx pgx.Tx
}

func (t *pgxDocumentTx) Get(ctx context.Context, key string) ([]byte, error) {
	return getDocument(ctx, t.tx, key)
}

func (t *pgxDocumentTx) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO ledger_documents (doc_key, doc_value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (doc_key) DO UPDATE SET doc_value = EXCLUDED.doc_value, updated_at = NOW();
	`
	if _, err := t.tx.Exec(ctx, query, key, string(value)); err != nil {
		return apperrors.NewAppError(apperrors.ErrStorage, fmt.Sprintf("failed to write document %s", key), err)
	}
	return nil
}

func (t *pgxDocumentTx) Delete(ctx context.Context, key string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM ledger_documents WHERE doc_key = $1`, key); err != nil {
		return apperrors.NewAppError(apperrors.ErrStorage, fmt.Sprintf("failed to delete document %s", key), err)
	}
	return nil
}
