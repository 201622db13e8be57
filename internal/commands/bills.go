package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billcollector-dev/billcollector/internal/ledger"
)

func newAddCommand(a *app) *cobra.Command {
	var payer string

	cmd := &cobra.Command{
		Use:   "add <name> <price>",
		Short: "Record a bill and split it",
		Long: `Record a bill paid by one person and split it between the household.
Bills named "rent" are split 35/32/32 (Armando/David/Noah); anything else is
split evenly three ways.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				b, err := svc.CreateBill(cmd.Context(), args[0], args[1], payer)
				if err != nil {
					return userError(err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added bill #%d: %s %s paid by %s\n", b.ID, b.Name, b.DisplayAmount(), b.Payer)
				return printBalances(out, svc.Balances())
			})
		},
	}

	cmd.Flags().StringVarP(&payer, "payer", "p", "", "who paid (Armando, David or Noah)")

	return cmd
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every bill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				bills, err := svc.ListBills(cmd.Context())
				if err != nil {
					return err
				}
				return printBills(cmd.OutOrStdout(), bills)
			})
		},
	}
}

func newPayCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark a bill paid and reverse its split",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := billID(args)
			if err != nil {
				return userError(err)
			}
			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				b, err := svc.MarkPaid(cmd.Context(), id)
				if err != nil {
					return userError(err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Marked bill #%d (%s) paid\n", b.ID, b.Name)
				return printBalances(out, svc.Balances())
			})
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a bill",
		Long: `Remove a bill from the ledger. Balances are left as they are unless
ledger.reverse_on_delete is enabled in the config, in which case an unpaid
bill's split is reversed first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := billID(args)
			if err != nil {
				return userError(err)
			}
			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				b, err := svc.DeleteBill(cmd.Context(), id)
				if err != nil {
					return userError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted bill #%d (%s)\n", b.ID, b.Name)
				return nil
			})
		},
	}
}
