package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// WriteText renders r as aligned plain-text tables. When withEvents is set
// the raw event rows follow the aggregate table.
func WriteText(w io.Writer, r Report, withEvents bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s report (%s) %s to %s\n\n", title(r.Period), r.Kind, r.Range.Start, r.Range.End)

	if len(r.Rows) == 0 {
		fmt.Fprintln(tw, "No events in range.")
	} else {
		fmt.Fprintln(tw, "PERIOD\tCHECK-IN\tCHECK-OUT\tTOTAL")
		for _, row := range r.Rows {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", row.Period, row.CheckIn, row.CheckOut, row.Total)
		}
	}

	if len(r.Breakdown) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "ISSUE TYPE\tCHECK-IN\tCHECK-OUT\tTOTAL")
		for _, row := range r.Breakdown {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", row.IssueType, row.CheckIn, row.CheckOut, row.Total)
		}
	}

	if withEvents && len(r.Events) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "PERIOD\tEVENT\tTIMESTAMP\tTRANSACTION\tPERSON\tASSET")
		for _, e := range r.Events {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
				e.Period, e.Event, e.Timestamp.Format(time.DateTime), e.TransactionID, int64(e.PersonID), e.AssetTag)
		}
	}

	s := r.Summary
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Check-ins:\t%d\n", s.CheckIns)
	fmt.Fprintf(tw, "Check-outs:\t%d\n", s.CheckOuts)
	fmt.Fprintf(tw, "Total events:\t%d\n", s.Events)
	fmt.Fprintf(tw, "Completed in range:\t%d\n", s.Turnaround.Count)
	fmt.Fprintf(tw, "Mean turnaround (h):\t%s\n", FormatHours(s.Turnaround.Mean))
	fmt.Fprintf(tw, "Median turnaround (h):\t%s\n", FormatHours(s.Turnaround.Median))
	fmt.Fprintf(tw, "Min turnaround (h):\t%s\n", FormatHours(s.Turnaround.Min))
	fmt.Fprintf(tw, "Max turnaround (h):\t%s\n", FormatHours(s.Turnaround.Max))

	return tw.Flush()
}

func title(p Period) string {
	if p == Weekly {
		return "Weekly"
	}
	return "Daily"
}
