package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/desk/internal/report"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Period   string
	Kind     string
	Start    string
	End      string
	Raw      bool
	FillGaps bool
}

// reportOutput hides the raw rows unless they were asked for.
type reportOutput struct {
	report.Report
	Events []report.EventRow `json:"events,omitempty"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Count check-ins and check-outs per day or week",
		Long: `Bucket check-in and check-out events by calendar day or ISO week
(Monday start) over an inclusive date range, with turnaround statistics.

Dates are YYYY-MM-DD in the configured timezone. An unparseable date is
ignored; a single date is a one-day range; reversed dates are swapped.
Without dates the last report.default_days days are used.

Examples:
  desk report
  desk report --period weekly --start 2024-03-01 --end 2024-03-31
  desk report --kind checkouts --raw
  desk report --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Period, "period", "", "daily or weekly (default: report.period setting)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "both", "checkins, checkouts, or both")
	cmd.Flags().StringVar(&opts.Start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.End, "end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "include raw event rows")
	cmd.Flags().BoolVar(&opts.FillGaps, "fill-gaps", true, "emit zero rows for empty periods (default: report.fill_gaps setting)")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	settings := sess.cfg.Report
	periodText := opts.Period
	if periodText == "" {
		periodText = settings.Period
	}
	period, err := report.ParsePeriod(periodText)
	if err != nil {
		return out.Fail("invalid period", err)
	}
	kind, err := report.ParseKind(opts.Kind)
	if err != nil {
		return out.Fail("invalid kind", err)
	}

	fillGaps := settings.FillGaps
	if cmd.Flags().Changed("fill-gaps") {
		fillGaps = opts.FillGaps
	}

	loc := sess.cfg.Location
	fallback := report.DefaultRange(clockOf(opts.RootOptions).Now(), settings.DefaultDays, loc)
	rep, err := report.Run(cmdContext(cmd), sess.ledger, report.Options{
		Period:   period,
		Kind:     kind,
		Range:    report.ResolveRange(opts.Start, opts.End, fallback),
		Location: loc,
		FillGaps: fillGaps,
	})
	if err != nil {
		return out.Fail("report failed", err)
	}

	payload := reportOutput{Report: rep}
	if opts.Raw {
		payload.Events = rep.Events
	}
	return out.Emit(payload, func(w io.Writer) error {
		return report.WriteText(w, rep, opts.Raw)
	})
}
