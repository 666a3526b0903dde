package boltstore

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	bolt "go.etcd.io/bbolt"
)

// BucketLedger holds every ledger document.
const BucketLedger = "ledger"

// Store is a DocumentStore backed by a single bbolt file.
// bbolt allows one read-write transaction at a time, which serializes Update.
type Store struct {
	db *bolt.DB
}

var _ portsrepo.DocumentStore = (*Store)(nil)

// Open opens (or creates) the database file and initializes the ledger bucket.
func Open(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketLedger)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketLedger, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		out, err = (&boltTx{tx: tx}).Get(ctx, key)
		return err
	})
	return out, err
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.Update(ctx, func(tx portsrepo.DocumentTx) error {
		return tx.Put(ctx, key, value)
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.Update(ctx, func(tx portsrepo.DocumentTx) error {
		return tx.Delete(ctx, key)
	})
}

func (s *Store) Update(ctx context.Context, fn func(tx portsrepo.DocumentTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

type boltTx struct {
	tx *bolt.Tx
}

func (t *boltTx) bucket() (*bolt.Bucket, error) {
	b := t.tx.Bucket([]byte(BucketLedger))
	if b == nil {
		return nil, fmt.Errorf("bucket %s not found", BucketLedger)
	}
	return b, nil
}

func (t *boltTx) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := t.bucket()
	if err != nil {
		return nil, err
	}
	data := b.Get([]byte(key))
	if data == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %s", key))
	}
	// bbolt memory is only valid for the life of the transaction.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (t *boltTx) Put(ctx context.Context, key string, value []byte) error {
	b, err := t.bucket()
	if err != nil {
		return err
	}
	return b.Put([]byte(key), value)
}

func (t *boltTx) Delete(ctx context.Context, key string) error {
	b, err := t.bucket()
	if err != nil {
		return err
	}
	return b.Delete([]byte(key))
}
