package cmd

import (
	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/platform/config"
	"github.com/SscSPs/mma_ledger/internal/repositories/database/pgsql"
	"github.com/spf13/cobra"
)

func newMigrateCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations (postgres driver)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.StoreDriver != config.DriverPostgres {
				return apperrors.NewAppError(apperrors.ErrConfiguration,
					"migrations only apply to the "+config.DriverPostgres+" driver", nil)
			}
			return pgsql.RunMigrations(app.cfg.DatabaseURL, app.logger)
		},
	}
}
