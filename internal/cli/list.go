package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/desk/internal/model"
)

// maxIssueWidth truncates issue text in tables.
const maxIssueWidth = 40

// ListResult is the JSON payload of active and completed.
type ListResult struct {
	Status       string              `json:"status"`
	Query        string              `json:"query,omitempty"`
	Count        int                 `json:"count"`
	Transactions []model.Transaction `json:"transactions"`
}

// NewActiveCommand creates the active command.
func NewActiveCommand(rootOpts *RootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "active",
		Short: "List equipment currently at the desk",
		Long: `List open transactions, most recent check-in first.

--search keeps transactions whose id, asset tag, person id, person name,
issue, or check-in time contains the text, ignoring case.

Examples:
  desk active
  desk active --search pc-7
  desk active --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, string(model.StatusOpen), search)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by text")

	return cmd
}

// NewCompletedCommand creates the completed command.
func NewCompletedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "completed",
		Short: "List equipment returned to its owner",
		Long: `List closed transactions, most recent check-out first.

Examples:
  desk completed
  desk completed --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, string(model.StatusClosed), "")
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command, status, search string) error {
	out := formatter(opts, cmd)

	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	var txs []model.Transaction
	label := "active"
	if status == string(model.StatusClosed) {
		label = "completed"
		txs, err = sess.ledger.Completed(cmdContext(cmd))
	} else {
		txs, err = sess.ledger.SearchActive(cmdContext(cmd), search)
	}
	if err != nil {
		return out.Fail("list failed", err)
	}

	result := ListResult{Status: label, Query: search, Count: len(txs), Transactions: txs}
	loc := sess.cfg.Location
	return out.Emit(result, func(w io.Writer) error {
		return writeTransactions(w, txs, loc)
	})
}

// writeTransactions prints transactions as an aligned table.
func writeTransactions(w io.Writer, txs []model.Transaction, loc *time.Location) error {
	if len(txs) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return nil
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tPERSON\tNAME\tASSET\tISSUE\tCHECKED IN\tCHECKED OUT")
	for _, tx := range txs {
		out := "-"
		if tx.CheckOutAt != nil {
			out = tx.CheckOutAt.In(loc).Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID,
			int64(tx.PersonID),
			tx.PersonName,
			tx.AssetTag,
			truncate(tx.Description(), maxIssueWidth),
			tx.CheckInAt.In(loc).Format(time.DateTime),
			out,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, line := range strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	fmt.Fprintf(w, "Total: %d transaction(s)\n", len(txs))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// NewCountsCommand creates the counts command.
func NewCountsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show how many items are at the desk and how many were returned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			sess, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			counts, err := sess.ledger.Counts(cmdContext(cmd))
			if err != nil {
				return out.Fail("counts failed", err)
			}
			return out.Emit(counts, func(w io.Writer) error {
				fmt.Fprintf(w, "Active: %d\nCompleted: %d\n", counts.Active, counts.Completed)
				return nil
			})
		},
	}
}
