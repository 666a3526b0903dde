package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_ledger/internal/adapters/storage"
	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

func newConvertCmd(app *cliApp) *cobra.Command {
	var file string
	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert bookkeeping income/expense records into posted journal entries",
		Long: `Convert one bookkeeping record, or an array of them, into posted journal
entries. Accounts are resolved from the configured role mapping, then by keyword.

Example:
  echo '{"id":"inc-1","type":"income","amount":"1000","category":"Sales","companyId":"1"}' | mma_ledger convert --actor-id u-1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.requireActor()
			if err != nil {
				return err
			}
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			records, err := decodeBookkeeping(data)
			if err != nil {
				return err
			}

			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				result := convertOutput{Converted: make([]*domain.JournalEntry, 0, len(records))}
				for _, record := range records {
					entry, err := svc.Journal.ConvertFromBookkeepingEntry(ctx, actor, record, nil)
					switch {
					case err == nil:
						result.Converted = append(result.Converted, entry)
					case errors.Is(err, apperrors.ErrDuplicate):
						app.logger.Warn("Skipping already converted record", slog.String("record_id", record.ID))
						result.Skipped = append(result.Skipped, record.ID)
					default:
						// Records before this one are already committed; report them with the failure.
						if writeErr := writeJSON(cmd, result); writeErr != nil {
							app.logger.Error("Failed to write partial conversion result", slog.String("error", writeErr.Error()))
						}
						return fmt.Errorf("record %s: %w", record.ID, err)
					}
				}
				app.logger.Info("Bookkeeping records converted",
					slog.Int("count", len(result.Converted)),
					slog.Int("skipped", len(result.Skipped)))
				return writeJSON(cmd, result)
			})
		},
	}
	convertCmd.Flags().StringVarP(&file, "file", "f", "", "JSON record or array file (default stdin)")
	return convertCmd
}

type convertOutput struct {
	Converted []*domain.JournalEntry `json:"converted"`
	Skipped   []string               `json:"skipped,omitempty"`
}

// decodeBookkeeping accepts a single record or an array of records.
func decodeBookkeeping(data []byte) ([]domain.BookkeepingEntry, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []domain.BookkeepingEntry
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid JSON input: %v", err))
		}
		return records, nil
	}
	var record domain.BookkeepingEntry
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid JSON input: %v", err))
	}
	return []domain.BookkeepingEntry{record}, nil
}
