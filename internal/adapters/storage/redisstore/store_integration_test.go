//go:build integration

package redisstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/mma_ledger/internal/adapters/storage/redisstore"
	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/adapters/storage/storetest"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/mma_ledger/testutil/testdb"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	redis, err := testdb.NewTestRedis(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redis.Close(ctx) })

	n := 0
	suite.Run(t, &storetest.DocumentStoreSuite{
		NewStore: func() portsrepo.DocumentStore {
			n++
			store, err := redisstore.Open(ctx, redisstore.Config{
				URL:       redis.URL,
				KeyPrefix: fmt.Sprintf("test-%d", n),
				LockTTL:   5 * time.Second,
			})
			require.NoError(t, err)
			return store
		},
	})
}

func TestRedisStore_ExpiredLockCannotCommit(t *testing.T) {
	ctx := context.Background()
	redis, err := testdb.NewTestRedis(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redis.Close(ctx) })

	store, err := redisstore.Open(ctx, redisstore.Config{
		URL:       redis.URL,
		KeyPrefix: "fencing",
		LockTTL:   200 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	err = store.Update(ctx, func(tx portsrepo.DocumentTx) error {
		time.Sleep(400 * time.Millisecond)
		// Another writer takes over the expired lock and commits first.
		require.NoError(t, store.Put(ctx, "k", []byte(`"second"`)))
		return tx.Put(ctx, "k", []byte(`"first"`))
	})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.JSONEq(t, `"second"`, string(got))
}
