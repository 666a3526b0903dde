package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
)

// Store is a process-local document store. Update holds the write lock for the whole
// transaction and applies staged writes only when the callback succeeds.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

var _ portsrepo.DocumentStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.docs[key]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %s", key))
	}
	return clone(v), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = clone(value)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

func (s *Store) Update(ctx context.Context, fn func(tx portsrepo.DocumentTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, staged: make(map[string][]byte), deleted: make(map[string]bool)}
	if err := fn(tx); err != nil {
		return err
	}
	for key := range tx.deleted {
		delete(s.docs, key)
	}
	for key, v := range tx.staged {
		s.docs[key] = v
	}
	return nil
}

func (s *Store) Close() error { return nil }

type memTx struct {
	store   *Store
	staged  map[string][]byte
	deleted map[string]bool
}

func (t *memTx) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := t.staged[key]; ok {
		return clone(v), nil
	}
	if t.deleted[key] {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %s", key))
	}
	v, ok := t.store.docs[key]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %s", key))
	}
	return clone(v), nil
}

func (t *memTx) Put(ctx context.Context, key string, value []byte) error {
	delete(t.deleted, key)
	t.staged[key] = clone(value)
	return nil
}

func (t *memTx) Delete(ctx context.Context, key string) error {
	delete(t.staged, key)
	t.deleted[key] = true
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
