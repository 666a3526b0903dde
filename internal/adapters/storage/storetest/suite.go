// Package storetest holds the behavioural checks every DocumentStore backend must pass.
package storetest

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/suite"
)

// DocumentStoreSuite runs against the store returned by NewStore, which is called once per test.
// Backends embed or run it with suite.Run.
type DocumentStoreSuite struct {
	suite.Suite
	NewStore func() portsrepo.DocumentStore

	store portsrepo.DocumentStore
}

func (s *DocumentStoreSuite) SetupTest() {
	s.Require().NotNil(s.NewStore, "NewStore must be set")
	s.store = s.NewStore()
}

func (s *DocumentStoreSuite) TearDownTest() {
	if s.store != nil {
		s.NoError(s.store.Close())
	}
}

func (s *DocumentStoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(context.Background(), "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DocumentStoreSuite) TestPutGetDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, "doc", []byte(`{"a":1}`)))

	got, err := s.store.Get(ctx, "doc")
	s.Require().NoError(err)
	s.JSONEq(`{"a":1}`, string(got))

	s.Require().NoError(s.store.Put(ctx, "doc", []byte(`[1,2]`)))
	got, err = s.store.Get(ctx, "doc")
	s.Require().NoError(err)
	s.JSONEq(`[1,2]`, string(got))

	s.Require().NoError(s.store.Delete(ctx, "doc"))
	_, err = s.store.Get(ctx, "doc")
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.NoError(s.store.Delete(ctx, "doc"), "deleting a missing key is not an error")
}

func (s *DocumentStoreSuite) TestUpdateCommitsAllWrites() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, "old", []byte(`"x"`)))

	err := s.store.Update(ctx, func(tx portsrepo.DocumentTx) error {
		if err := tx.Put(ctx, "a", []byte(`1`)); err != nil {
			return err
		}
		got, err := tx.Get(ctx, "a")
		if err != nil {
			return err
		}
		s.JSONEq(`1`, string(got), "reads see earlier writes in the same transaction")
		if err := tx.Delete(ctx, "old"); err != nil {
			return err
		}
		_, err = tx.Get(ctx, "old")
		s.ErrorIs(err, apperrors.ErrNotFound)
		return tx.Put(ctx, "b", []byte(`2`))
	})
	s.Require().NoError(err)

	a, err := s.store.Get(ctx, "a")
	s.Require().NoError(err)
	s.JSONEq(`1`, string(a))
	b, err := s.store.Get(ctx, "b")
	s.Require().NoError(err)
	s.JSONEq(`2`, string(b))
	_, err = s.store.Get(ctx, "old")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DocumentStoreSuite) TestUpdateRollsBackOnError() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, "keep", []byte(`"before"`)))
	boom := errors.New("boom")

	err := s.store.Update(ctx, func(tx portsrepo.DocumentTx) error {
		if err := tx.Put(ctx, "keep", []byte(`"after"`)); err != nil {
			return err
		}
		if err := tx.Put(ctx, "new", []byte(`1`)); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.Get(ctx, "keep")
	s.Require().NoError(err)
	s.JSONEq(`"before"`, string(got))
	_, err = s.store.Get(ctx, "new")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DocumentStoreSuite) TestConcurrentUpdatesAreSerialized() {
	ctx := context.Background()
	const workers = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.store.Update(ctx, func(tx portsrepo.DocumentTx) error {
				n := 0
				raw, err := tx.Get(ctx, "counter")
				switch {
				case err == nil:
					n, err = strconv.Atoi(string(raw))
					if err != nil {
						return err
					}
				case !errors.Is(err, apperrors.ErrNotFound):
					return err
				}
				return tx.Put(ctx, "counter", []byte(strconv.Itoa(n+1)))
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	raw, err := s.store.Get(ctx, "counter")
	s.Require().NoError(err)
	s.Equal(strconv.Itoa(workers), string(raw))
}
