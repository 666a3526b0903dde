package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_ledger/internal/adapters/chart"
	"github.com/SscSPs/mma_ledger/internal/adapters/storage"
	"github.com/SscSPs/mma_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

type importOutput struct {
	Imported int `json:"imported"`
}

func newChartCmd(app *cliApp) *cobra.Command {
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart of accounts",
	}

	var company string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the accounts visible to a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, _ *portssvc.ServiceContainer, backend *storage.Backend) error {
				accounts, err := backend.Repos.Chart.ListAccounts(ctx, company)
				if err != nil {
					return err
				}
				return writeJSON(cmd, accounts)
			})
		},
	}
	listCmd.Flags().StringVar(&company, "company", "", "company id (default every account)")

	var file string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Seed the chart of accounts table from a YAML chart file (postgres driver)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := chart.ReadAccounts(file)
			if err != nil {
				return err
			}
			return app.withServices(cmd, func(ctx context.Context, _ *portssvc.ServiceContainer, backend *storage.Backend) error {
				if backend.AccountWriter == nil {
					return apperrors.NewAppError(apperrors.ErrConfiguration,
						"chart import requires the postgres driver", nil)
				}
				for _, acc := range accounts {
					if err := backend.AccountWriter.SaveAccount(ctx, acc); err != nil {
						return fmt.Errorf("failed to save account %s: %w", acc.ID, err)
					}
				}
				app.logger.Info("Chart of accounts imported", slog.String("path", file), slog.Int("accounts", len(accounts)))
				return writeJSON(cmd, importOutput{Imported: len(accounts)})
			})
		},
	}
	importCmd.Flags().StringVarP(&file, "file", "f", "", "YAML chart file (required)")
	_ = importCmd.MarkFlagRequired("file")

	chartCmd.AddCommand(listCmd, importCmd)
	return chartCmd
}
