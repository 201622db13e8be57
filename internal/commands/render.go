package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/billcollector-dev/billcollector/internal/model"
	"github.com/billcollector-dev/billcollector/internal/money"
)

func printBills(w io.Writer, bills []model.Bill) error {
	if len(bills) == 0 {
		_, err := fmt.Fprintln(w, "No bills recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBILL\tPRICE\tPAID BY\tDATE\tSTATUS")
	for _, b := range bills {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Name, b.DisplayAmount(), b.Payer, b.DisplayTime(), b.Status())
	}
	return tw.Flush()
}

func printBalances(w io.Writer, b model.Balances) error {
	for _, p := range model.Participants {
		if _, err := fmt.Fprintf(w, "%s owes: %s\n", p, money.Format(b.Get(p))); err != nil {
			return err
		}
	}
	return nil
}
