package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/billcollector-dev/billcollector/internal/config"
	"github.com/billcollector-dev/billcollector/internal/storage/sqlite"
)

func newInitCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file and create the ledger database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, a *app, force bool) error {
	_, err := os.Stat(a.configPath)
	switch {
	case err == nil && !force:
		fmt.Fprintf(cmd.OutOrStdout(), "Keeping existing config %s\n", a.configPath)
	case err == nil || errors.Is(err, fs.ErrNotExist):
		if err := config.Save(a.configPath, a.cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote config %s\n", a.configPath)
	default:
		return fmt.Errorf("checking config: %w", err)
	}

	store, err := sqlite.Open(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := store.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledger at %s\n", a.cfg.Database.Path)
	return nil
}
