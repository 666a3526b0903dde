package cmd

import (
	"context"
	"log/slog"

	"github.com/SscSPs/mma_ledger/internal/adapters/storage"
	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *cliApp) *cobra.Command {
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Create, inspect, post and reverse journal entries",
	}
	entryCmd.AddCommand(
		newEntryCreateCmd(app),
		newEntryShowCmd(app),
		newEntryListCmd(app),
		newEntryPostCmd(app),
		newEntryReverseCmd(app),
		newEntryValidateCmd(app),
		newEntryHistoryCmd(app),
	)
	return entryCmd
}

func newEntryCreateCmd(app *cliApp) *cobra.Command {
	var (
		file string
		post bool
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a manual journal entry",
		Long: `Create a manual journal entry from a JSON form:

  {"date": "2024-01-10", "description": "January rent", "companyId": "1",
   "lines": [{"accountId": "rent", "debit": "300"},
             {"accountId": "bank", "credit": "300"}]}

Entries are created as drafts unless --post is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.requireActor()
			if err != nil {
				return err
			}
			var req dto.CreateJournalEntryRequest
			if err := decodeInput(cmd, file, &req); err != nil {
				return err
			}
			if post {
				req.Status = string(domain.StatusPosted)
			}
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				entry, err := svc.Journal.CreateFromForm(ctx, actor, req)
				if err != nil {
					return err
				}
				app.logger.Info("Journal entry created",
					slog.String("entry_id", entry.ID),
					slog.String("entry_number", entry.EntryNumber),
					slog.String("status", string(entry.Status)))
				return writeJSON(cmd, entry)
			})
		},
	}
	createCmd.Flags().StringVarP(&file, "file", "f", "", "JSON form file (default stdin)")
	createCmd.Flags().BoolVar(&post, "post", false, "post the entry immediately")
	return createCmd
}

func newEntryShowCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "show <entry-id>",
		Short: "Show one journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				entry, err := svc.Journal.GetEntry(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd, entry)
			})
		},
	}
}

func newEntryListCmd(app *cliApp) *cobra.Command {
	var params dto.ListJournalEntriesParams
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				entries, next, err := svc.Journal.ListEntries(ctx, params)
				if err != nil {
					return err
				}
				return writeJSON(cmd, dto.ListJournalEntriesResponse{
					Entries:   dto.ToJournalEntrySummaries(entries),
					NextToken: next,
				})
			})
		},
	}
	listCmd.Flags().StringVar(&params.CompanyID, "company", "", "only entries of this company")
	listCmd.Flags().StringVar(&params.Status, "status", "", "only entries with this status (draft, posted, reversed)")
	listCmd.Flags().IntVar(&params.Limit, "limit", 0, "page size (default everything)")
	listCmd.Flags().StringVar(&params.NextToken, "next-token", "", "token from the previous page")
	return listCmd
}

func newEntryPostCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "post <entry-id>",
		Short: "Post a draft journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.requireActor()
			if err != nil {
				return err
			}
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				entry, err := svc.Journal.PostEntry(ctx, actor, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd, entry)
			})
		},
	}
}

func newEntryReverseCmd(app *cliApp) *cobra.Command {
	var reason string
	reverseCmd := &cobra.Command{
		Use:   "reverse <entry-id>",
		Short: "Reverse a posted journal entry",
		Long: `Reverse a posted journal entry. A mirror entry with debits and credits
swapped is created and posted, and the original is marked reversed.
The new reversal entry is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.requireActor()
			if err != nil {
				return err
			}
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				reversal, err := svc.Journal.ReverseEntry(ctx, actor, args[0], reason)
				if err != nil {
					return err
				}
				return writeJSON(cmd, reversal)
			})
		},
	}
	reverseCmd.Flags().StringVar(&reason, "reason", "", "reason recorded on the reversal")
	return reverseCmd
}

func newEntryValidateCmd(app *cliApp) *cobra.Command {
	var file string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a journal entry document without saving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry domain.JournalEntry
			if err := decodeInput(cmd, file, &entry); err != nil {
				return err
			}
			entry.Recalculate()
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				problems := svc.Journal.ValidateEntry(entry)
				return writeJSON(cmd, dto.ValidationResponse{Valid: len(problems) == 0, Problems: problems})
			})
		},
	}
	validateCmd.Flags().StringVarP(&file, "file", "f", "", "JSON entry file (default stdin)")
	return validateCmd
}

func newEntryHistoryCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "history <entry-id>",
		Short: "Show the audit trail of a journal entry (postgres driver)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, _ *portssvc.ServiceContainer, backend *storage.Backend) error {
				if backend.AuditReader == nil {
					return apperrors.NewAppError(apperrors.ErrConfiguration,
						"audit history requires the postgres driver", nil)
				}
				actions, err := backend.AuditReader.ListByEntity(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd, actions)
			})
		},
	}
}
