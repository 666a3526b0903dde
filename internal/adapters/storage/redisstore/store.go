package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockRetryInterval = 25 * time.Millisecond

// unlockScript deletes the lock only if it is still held by the caller's token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Store keeps ledger documents as Redis string keys under a prefix.
// Update takes a SET NX lock, stages writes locally and commits them with MULTI/EXEC.
// The lock expires after lockTTL; a transaction that outlives it fails with ErrConflict.
type Store struct {
	client  *redis.Client
	prefix  string
	lockTTL time.Duration
}

var _ portsrepo.DocumentStore = (*Store)(nil)

// Config holds Redis store configuration.
type Config struct {
	URL       string
	KeyPrefix string
	LockTTL   time.Duration
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return New(client, cfg.KeyPrefix, cfg.LockTTL), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, lockTTL time.Duration) *Store {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &Store{client: client, prefix: prefix, lockTTL: lockTTL}
}

func (s *Store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *Store) lockKey() string {
	return s.key("lock")
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %s", key))
	}
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrStorage, fmt.Sprintf("failed to read document %s", key), err)
	}
	return val, nil
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
	token, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer s.release(token)

	tx := &redisTx{store: s, staged: make(map[string][]byte), deleted: make(map[string]bool)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.staged) == 0 && len(tx.deleted) == 0 {
		return nil
	}

	return s.commit(ctx, token, tx)
}

// commit applies the staged writes only while token still holds the lock. The lock key is
// WATCHed, so a writer that takes over an expired lock aborts this EXEC.
func (s *Store) commit(ctx context.Context, token string, tx *redisTx) error {
	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		holder, err := rtx.Get(ctx, s.lockKey()).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return apperrors.NewAppError(apperrors.ErrStorage, "failed to verify ledger lock", err)
		}
		if holder != token {
			return apperrors.NewAppError(apperrors.ErrConflict, "ledger lock expired before commit", nil)
		}

		_, err = rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for key := range tx.deleted {
				pipe.Del(ctx, s.key(key))
			}
			for key, value := range tx.staged {
				pipe.Set(ctx, s.key(key), value, 0)
			}
			return nil
		})
		if errors.Is(err, redis.TxFailedErr) {
			return apperrors.NewAppError(apperrors.ErrConflict, "ledger lock changed during commit", nil)
		}
		return err
	}, s.lockKey())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrStorage):
		return err
	default:
		return apperrors.NewAppError(apperrors.ErrStorage, "failed to commit ledger transaction", err)
	}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) acquire(ctx context.Context) (string, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(s.lockTTL)
	for {
		ok, err := s.client.SetNX(ctx, s.lockKey(), token, s.lockTTL).Result()
		if err != nil {
			return "", apperrors.NewAppError(apperrors.ErrStorage, "failed to acquire ledger lock", err)
		}
		if ok {
			return token, nil
		}
		if time.Now().After(deadline) {
			return "", apperrors.NewAppError(apperrors.ErrConflict, "timed out waiting for ledger lock", nil)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (s *Store) release(token string) {
	// The caller's context may already be cancelled; the lock must still be released.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := unlockScript.Run(ctx, s.client, []string{s.lockKey()}, token).Err(); err != nil {
		slog.Default().Warn("Failed to release ledger lock", slog.String("error", err.Error()))
	}
}

type redisTx struct {
	store   *Store
	staged  map[string][]byte
	deleted map[string]bool
}

func (t *redisTx) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := t.staged[key]; ok {
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	}
	if t.deleted[key] {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %s", key))
	}
	return t.store.Get(ctx, key)
}

func (t *redisTx) Put(ctx context.Context, key string, value []byte) error {
	delete(t.deleted, key)
	v := make([]byte, len(value))
	copy(v, value)
	t.staged[key] = v
	return nil
}

func (t *redisTx) Delete(ctx context.Context, key string) error {
	delete(t.staged, key)
	t.deleted[key] = true
	return nil
}
