package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billcollector-dev/billcollector/internal/billcsv"
	"github.com/billcollector-dev/billcollector/internal/ledger"
)

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all bills as CSV (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				bills, err := svc.ListBills(cmd.Context())
				if err != nil {
					return err
				}
				if len(args) == 0 {
					return billcsv.WriteBills(cmd.OutOrStdout(), bills)
				}

				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				if err := billcsv.WriteBills(f, bills); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bills to %s\n", len(bills), args[0])
				return f.Close()
			})
		},
	}
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Record bills from a CSV file",
		Long: `Record every row of a CSV file with name, amount and payer columns (an
optional paid column marks the bill paid right away). Rows are recorded one
at a time; the import stops at the first invalid row.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer f.Close()

			rows, err := billcsv.ReadRows(f)
			if err != nil {
				return err
			}

			return a.withLedger(cmd.Context(), func(svc *ledger.Service) error {
				ctx := cmd.Context()
				for i, row := range rows {
					b, err := svc.CreateBill(ctx, row.Name, row.Amount, row.Payer)
					if err != nil {
						return fmt.Errorf("row %d: %w (imported %d)", row.Line, userError(err), i)
					}
					if row.Paid {
						if _, err := svc.MarkPaid(ctx, b.ID); err != nil {
							return fmt.Errorf("row %d: %w (imported %d)", row.Line, err, i)
						}
					}
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d bills\n", len(rows))
				return printBalances(out, svc.Balances())
			})
		},
	}
}
