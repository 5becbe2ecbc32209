package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/desk/internal/model"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction-id>",
		Short: "Show a transaction with its person and asset",
		Long: `Print the receipt for one transaction: the transaction itself plus the
person and asset directory records it refers to.

Examples:
  desk show 42
  desk show 42 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, rawID string, cmd *cobra.Command) error {
	out := formatter(opts, cmd)

	id, err := model.ParseTransactionID(rawID)
	if err != nil {
		return out.Fail("invalid transaction", err)
	}

	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	r, err := sess.ledger.Receipt(cmdContext(cmd), id)
	if err != nil {
		return out.Fail("lookup failed", err)
	}
	if r == nil {
		msg := fmt.Sprintf("transaction %d not found", id)
		if out.IsJSON() {
			if err := out.Error(CodeNotFound, msg, nil); err != nil {
				return err
			}
		}
		return NewExitError(ExitFailure, msg)
	}

	loc := sess.cfg.Location
	return out.Emit(r, func(w io.Writer) error {
		return writeReceipt(w, *r, loc)
	})
}

func writeReceipt(w io.Writer, r model.Receipt, loc *time.Location) error {
	tx := r.Transaction
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Confirmation:\t%s\n", r.Confirmation)
	fmt.Fprintf(tw, "Transaction:\t%d\n", tx.ID)
	fmt.Fprintf(tw, "Reference:\t%s\n", tx.Reference)
	fmt.Fprintf(tw, "Status:\t%s\n", tx.Status)
	fmt.Fprintf(tw, "Person:\t%d\t%s\n", int64(r.Person.ID), r.Person.Name)
	if r.Person.Address != "" {
		fmt.Fprintf(tw, "Address:\t%s\n", r.Person.Address)
	}
	fmt.Fprintf(tw, "Asset:\t%s\t%s\n", r.Asset.Tag, r.Asset.Model)
	fmt.Fprintf(tw, "Issue:\t%s\n", tx.Description())
	fmt.Fprintf(tw, "Checked in:\t%s\n", tx.CheckInAt.In(loc).Format(time.DateTime))
	if tx.CheckOutAt != nil {
		fmt.Fprintf(tw, "Checked out:\t%s\n", tx.CheckOutAt.In(loc).Format(time.DateTime))
	}
	return tw.Flush()
}
