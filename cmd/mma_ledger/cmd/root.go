// Package cmd provides the CLI commands for mma_ledger.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_ledger/internal/adapters/storage"
	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/core/services"
	"github.com/SscSPs/mma_ledger/internal/platform/config"
	"github.com/SscSPs/mma_ledger/internal/platform/logging"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// cliApp is the state shared by every command of one invocation.
type cliApp struct {
	cfgFile   string
	debug     bool
	actorID   string
	actorName string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	app := &cliApp{}

	rootCmd := &cobra.Command{
		Use:   "mma_ledger",
		Short: "Operate the double-entry journal ledger",
		Long: `mma_ledger records, posts, reverses and reports on double-entry
journal entries kept in the configured ledger store.

Input documents are JSON read from --file or stdin; results are JSON on stdout.

Example:
  mma_ledger entry create --file entry.json --actor-id u-1
  mma_ledger report trial-balance --as-of 2024-01-31 --company 1
  mma_ledger backup create --output ledger-backup.json`,
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "env file to load before .env")
	rootCmd.PersistentFlags().BoolVar(&app.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&app.actorID, "actor-id", "", "acting user id (default LEDGER_ACTOR_ID)")
	rootCmd.PersistentFlags().StringVar(&app.actorName, "actor-name", "", "acting user name (default LEDGER_ACTOR_NAME)")

	rootCmd.AddCommand(
		newEntryCmd(app),
		newConvertCmd(app),
		newReportCmd(app),
		newNumberingCmd(app),
		newBackupCmd(app),
		newSummaryCmd(app),
		newChartCmd(app),
		newMigrateCmd(app),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *cliApp) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.debug {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), logging.Options{Production: cfg.IsProduction, Level: level})
	slog.SetDefault(logger)

	a.logger = logger.With(
		slog.String("command", cmd.CommandPath()),
		slog.String("actor_id", a.actor().ID),
		slog.String("request_id", uuid.NewString()),
	)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// actor resolves the acting user from flags, then configuration.
func (a *cliApp) actor() domain.Actor {
	actor := domain.Actor{ID: a.actorID, FullName: a.actorName}
	if a.cfg != nil {
		if actor.ID == "" {
			actor.ID = a.cfg.ActorID
		}
		if actor.FullName == "" {
			actor.FullName = a.cfg.ActorName
		}
	}
	if actor.FullName == "" {
		actor.FullName = actor.ID
	}
	return actor
}

// requireActor returns the acting user for commands that change the ledger.
func (a *cliApp) requireActor() (domain.Actor, error) {
	actor := a.actor()
	if actor.ID == "" {
		return actor, apperrors.NewValidationError("actor id is required (--actor-id or LEDGER_ACTOR_ID)")
	}
	return actor, nil
}

// withServices opens the configured backend, wires the services and closes the backend when fn returns.
func (a *cliApp) withServices(cmd *cobra.Command, fn func(ctx context.Context, svc *portssvc.ServiceContainer, backend *storage.Backend) error) error {
	ctx := cmd.Context()
	backend, err := storage.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open ledger store: %w", err)
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			a.logger.Error("Failed to close ledger store", slog.String("error", cerr.Error()))
		}
	}()

	container := services.NewServiceContainer(a.cfg, backend.Repos)
	if err := fn(ctx, container, backend); err != nil {
		a.logger.Error("Command failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
