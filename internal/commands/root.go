package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/billcollector-dev/billcollector/internal/config"
	"github.com/billcollector-dev/billcollector/internal/ledger"
	"github.com/billcollector-dev/billcollector/internal/logging"
	"github.com/billcollector-dev/billcollector/internal/storage/sqlite"
)

// app carries the resolved configuration from the root command to the
// subcommands.
type app struct {
	configPath string
	dbPath     string
	cfg        *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "billcollector",
		Short:   "Split household bills between Armando, David and Noah",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.resolve(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "config file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newAddCommand(a),
		newListCommand(a),
		newBalancesCommand(a),
		newPayCommand(a),
		newDeleteCommand(a),
		newResetCommand(a),
		newCheckCommand(a),
		newRebuildCommand(a),
		newExportCommand(a),
		newImportCommand(a),
	)

	return rootCmd
}

// resolve loads .env, the config file and environment overrides, then sets
// up logging.
func (a *app) resolve(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	a.cfg = cfg

	logging.Setup(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))
	return nil
}

// withLedger opens the store, hands a ledger to fn and closes the store.
func (a *app) withLedger(ctx context.Context, fn func(*ledger.Service) error) error {
	store, err := sqlite.Open(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	svc, err := ledger.Open(ctx, store, ledger.Options{
		ReverseOnDelete: a.cfg.Ledger.ReverseOnDelete,
	})
	if err != nil {
		return err
	}
	return fn(svc)
}
