package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/desk/internal/ledger"
	"github.com/roach88/desk/internal/model"
)

// CheckInOptions holds flags for the checkin command.
type CheckInOptions struct {
	*RootOptions
	Person    string
	Asset     string
	Issue     string
	IssueType string
	Name      string
	Address   string
}

// CheckOutResult reports the outcome of a check-out.
type CheckOutResult struct {
	TransactionID int64 `json:"transaction_id"`
	Closed        bool  `json:"closed"`
}

// NewCheckInCommand creates the checkin command.
func NewCheckInCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckInOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record equipment handed in at the desk",
		Long: `Open a transaction for an asset handed in by a person.

The person and asset are created on first use. --issue takes the combined
"<Type>: <details>" form; --type sets the issue type explicitly, in which
case --issue is the details alone.

Examples:
  desk checkin --person 1001 --asset PC-7 --issue "Hardware Failure: won't boot"
  desk checkin --person 1001 --asset PC-7 --type "Account Lockout" --issue "locked after reset"
  desk checkin --person 1002 --asset LT-9 --name "Sam Lee" --address sam@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckIn(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Person, "person", "", "person id (required)")
	cmd.Flags().StringVar(&opts.Asset, "asset", "", "asset tag (required)")
	cmd.Flags().StringVar(&opts.Issue, "issue", "", `issue text, "<Type>: <details>"`)
	cmd.Flags().StringVar(&opts.IssueType, "type", "", "issue type (Hardware Failure, Software Request, Performance Issue, Account Lockout, Other)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "person name")
	cmd.Flags().StringVar(&opts.Address, "address", "", "person contact address")
	_ = cmd.MarkFlagRequired("person")
	_ = cmd.MarkFlagRequired("asset")

	return cmd
}

func runCheckIn(opts *CheckInOptions, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)

	personID, err := model.ParsePersonID(opts.Person)
	if err != nil {
		return out.Fail("invalid person", err)
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	tx, err := sess.ledger.CheckIn(cmdContext(cmd), ledger.CheckInRequest{
		PersonID:  personID,
		AssetTag:  opts.Asset,
		Issue:     opts.Issue,
		IssueType: model.IssueType(opts.IssueType),
		Name:      opts.Name,
		Address:   opts.Address,
	})
	if err != nil {
		return out.Fail("check-in failed", err)
	}

	return out.Emit(tx, func(w io.Writer) error {
		fmt.Fprintf(w, "Checked in %s for person %d: transaction %d\n", tx.AssetTag, int64(tx.PersonID), tx.ID)
		fmt.Fprintf(w, "Reference: %s\n", tx.Reference)
		fmt.Fprintf(w, "Issue: %s\n", tx.Description())
		return nil
	})
}

// NewCheckOutCommand creates the checkout command.
func NewCheckOutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <transaction-id>",
		Short: "Record equipment returned to its owner",
		Long: `Close an open transaction at the current time.

Checking out an unknown or already-closed transaction changes nothing and
is not an error.

Examples:
  desk checkout 42
  desk checkout 42 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckOut(rootOpts, args[0], cmd)
		},
	}
}

func runCheckOut(opts *RootOptions, rawID string, cmd *cobra.Command) error {
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

	closed, err := sess.ledger.CheckOut(cmdContext(cmd), id)
	if err != nil {
		return out.Fail("check-out failed", err)
	}

	result := CheckOutResult{TransactionID: id, Closed: closed}
	return out.Emit(result, func(w io.Writer) error {
		if closed {
			fmt.Fprintf(w, "Transaction %d closed\n", id)
		} else {
			fmt.Fprintf(w, "Transaction %d: nothing to do (unknown or already closed)\n", id)
		}
		return nil
	})
}
