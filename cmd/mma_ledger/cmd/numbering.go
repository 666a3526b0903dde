package cmd

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/adapters/storage"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

type numberOutput struct {
	EntryNumber string `json:"entryNumber"`
}

func newNumberingCmd(app *cliApp) *cobra.Command {
	numberingCmd := &cobra.Command{
		Use:   "numbering",
		Short: "Journal entry number counter",
	}

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Consume and print the next entry number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				return writeJSON(cmd, numberOutput{EntryNumber: svc.Numbering.NextNumber(ctx)})
			})
		},
	}
	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the next entry number without consuming it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				next, err := svc.Journal.PreviewNextNumber(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd, numberOutput{EntryNumber: next})
			})
		},
	}
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the counter so it is rebuilt from existing entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				if err := svc.Numbering.Reset(ctx); err != nil {
					return err
				}
				app.logger.Info("Journal entry counter reset")
				return writeJSON(cmd, numberOutput{EntryNumber: svc.Numbering.PreviewNext(ctx)})
			})
		},
	}

	numberingCmd.AddCommand(nextCmd, previewCmd, resetCmd)
	return numberingCmd
}
