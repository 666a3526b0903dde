// Package storage opens the configured ledger backend and its supporting repositories.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_ledger/internal/adapters/audit"
	"github.com/SscSPs/mma_ledger/internal/adapters/chart"
	"github.com/SscSPs/mma_ledger/internal/adapters/storage/boltstore"
	"github.com/SscSPs/mma_ledger/internal/adapters/storage/memstore"
	"github.com/SscSPs/mma_ledger/internal/adapters/storage/redisstore"
	"github.com/SscSPs/mma_ledger/internal/adapters/storage/sqlitestore"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/mma_ledger/internal/platform/config"
	"github.com/SscSPs/mma_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/mma_ledger/pkg/database"
)

// Backend bundles the repositories for one configured driver.
type Backend struct {
	Repos portsrepo.RepositoryProvider

	// AccountWriter and AuditReader are only available on the postgres driver.
	AccountWriter portsrepo.ChartOfAccountsWriter
	AuditReader   portsrepo.AuditReader

	closers []func() error
}

// Open builds the document store selected by cfg.StoreDriver, plus the chart,
// role mapping and audit repositories that go with it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}
	if err := b.openStore(ctx, cfg, logger); err != nil {
		_ = b.Close()
		return nil, err
	}

	if b.Repos.Chart == nil {
		if cfg.ChartFile != "" {
			fileChart, err := chart.LoadFile(cfg.ChartFile)
			if err != nil {
				_ = b.Close()
				return nil, err
			}
			b.Repos.Chart = fileChart
		} else {
			logger.Warn("No chart of accounts configured; account lookups will be empty")
			b.Repos.Chart = chart.NewStaticChart(nil)
		}
	}
	if b.Repos.Audit == nil {
		b.Repos.Audit = audit.NewLogSink(logger)
	}
	if cfg.AccountMappingFile != "" {
		mappings, err := chart.LoadRoleMappings(cfg.AccountMappingFile)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.Repos.RoleMappings = mappings
	}
	return b, nil
}

func (b *Backend) openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		b.Repos.Store = memstore.New()
	case config.DriverBolt:
		store, err := boltstore.Open(cfg.BoltPath)
		if err != nil {
			return err
		}
		b.Repos.Store = store
	case config.DriverSQLite:
		store, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		b.Repos.Store = store
	case config.DriverRedis:
		store, err := redisstore.Open(ctx, redisstore.Config{
			URL:       cfg.RedisURL,
			KeyPrefix: cfg.RedisKeyPrefix,
			LockTTL:   cfg.RedisLockTTL,
		})
		if err != nil {
			return err
		}
		b.Repos.Store = store
	case config.DriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.PgMaxConns, cfg.EnableDBCheck)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() error {
			database.ClosePgxPool(pool)
			return nil
		})
		if err := pgsql.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return err
		}
		b.Repos = pgsql.NewRepositoryProvider(pool)
		accounts := pgsql.NewAccountRepository(pool)
		b.Repos.Chart = accounts
		b.AccountWriter = accounts
		auditRepo := pgsql.NewAuditRepository(pool)
		b.Repos.Audit = auditRepo
		b.AuditReader = auditRepo
	default:
		return fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
	logger.Debug("Ledger store opened", slog.String("driver", cfg.StoreDriver))
	return nil
}

// Close releases the store and any connection pools, newest first.
func (b *Backend) Close() error {
	var errs []error
	if b.Repos.Store != nil {
		errs = append(errs, b.Repos.Store.Close())
	}
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}
