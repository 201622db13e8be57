package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billcollector-dev/billcollector/internal/ledger"
)

func newBalancesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show what each person owes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				return printBalances(cmd.OutOrStdout(), svc.Balances())
			})
		},
	}
}

func newResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Set every balance back to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				if err := svc.ResetBalances(cmd.Context()); err != nil {
					return err
				}
				return printBalances(cmd.OutOrStdout(), svc.Balances())
			})
		},
	}
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify balances against the unpaid bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				issues, err := svc.Check(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(issues) == 0 {
					fmt.Fprintln(out, "Ledger is consistent.")
					return nil
				}
				for _, is := range issues {
					fmt.Fprintln(out, is.Error())
				}
				return fmt.Errorf("ledger inconsistent: %d problem(s); run rebuild to recompute balances", len(issues))
			})
		},
	}
}

func newRebuildCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute balances from the unpaid bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				b, err := svc.Rebuild(cmd.Context())
				if err != nil {
					return err
				}
				return printBalances(cmd.OutOrStdout(), b)
			})
		},
	}
}
