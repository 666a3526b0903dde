package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/mma_ledger/internal/adapters/storage"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

type restoreOutput struct {
	Restored int `json:"restored"`
}

func newBackupCmd(app *cliApp) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot and restore the journal entry collection",
	}

	var output string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Write a backup of every journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				backup, err := svc.Storage.CreateBackup(ctx)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					return writeJSON(cmd, backup)
				}
				data, err := json.MarshalIndent(backup, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode backup: %w", err)
				}
				if err := os.WriteFile(output, data, 0o600); err != nil {
					return fmt.Errorf("failed to write backup: %w", err)
				}
				app.logger.Info("Backup written", slog.String("path", output), slog.Int("entries", len(backup.Data)))
				return nil
			})
		},
	}
	createCmd.Flags().StringVarP(&output, "output", "o", "", "backup file (default stdout)")

	var file string
	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the ledger with the entries of a backup",
		Long: `Replace the whole journal entry collection with the entries of a backup.
The backup is validated first; nothing is written when it is rejected.
The entry number counter is rebuilt from the restored entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			return app.withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, _ *storage.Backend) error {
				if err := svc.Storage.RestoreFromBackup(ctx, payload); err != nil {
					return err
				}
				entries, err := svc.Storage.GetAll(ctx)
				if err != nil {
					return err
				}
				app.logger.Info("Backup restored", slog.Int("entries", len(entries)))
				return writeJSON(cmd, restoreOutput{Restored: len(entries)})
			})
		},
	}
	restoreCmd.Flags().StringVarP(&file, "file", "f", "", "backup file (default stdin)")

	backupCmd.AddCommand(createCmd, restoreCmd)
	return backupCmd
}
