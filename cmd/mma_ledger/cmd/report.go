package cmd

import (
	"context"
	"time"

	"github.com/SscSPs/mma_ledger/internal/adapters/storage"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

func newReportCmd(app *cliApp) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Ledger reports over posted entries",
	}

	var (
		asOf      string
		tbCompany string
	)
	trialBalanceCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Trial balance as of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayFlag("as-of", asOf, time.Now().UTC())
			if err != nil {
				return err
			}
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				report, err := svc.Reporting.TrialBalance(ctx, day, tbCompany)
				if err != nil {
					return err
				}
				return writeJSON(cmd, report)
			})
		},
	}
	trialBalanceCmd.Flags().StringVar(&asOf, "as-of", "", "last day included, YYYY-MM-DD (default today)")
	trialBalanceCmd.Flags().StringVar(&tbCompany, "company", "", "company id (default all companies)")

	var (
		from, to  string
		abCompany string
	)
	accountBalancesCmd := &cobra.Command{
		Use:   "account-balances",
		Short: "Signed account balances over a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDayFlag("from", from, time.Time{})
			if err != nil {
				return err
			}
			end, err := parseDayFlag("to", to, time.Now().UTC())
			if err != nil {
				return err
			}
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				balances, err := svc.Reporting.AccountBalances(ctx, start, end, abCompany)
				if err != nil {
					return err
				}
				return writeJSON(cmd, balances)
			})
		},
	}
	accountBalancesCmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (required)")
	accountBalancesCmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (default today)")
	accountBalancesCmd.Flags().StringVar(&abCompany, "company", "", "company id (default all companies)")
	_ = accountBalancesCmd.MarkFlagRequired("from")

	reportCmd.AddCommand(trialBalanceCmd, accountBalancesCmd)
	return reportCmd
}
