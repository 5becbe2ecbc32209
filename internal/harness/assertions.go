package harness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/desk/internal/ledger"
	"github.com/roach88/desk/internal/model"
	"github.com/roach88/desk/internal/report"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Ledger   *ledger.Ledger
	Location *time.Location
	Ctx      context.Context
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTransaction:
			err = assertTransaction(actx, a)
		case AssertActive, AssertCompleted:
			err = assertCount(actx, a)
		case AssertReport:
			err = assertReport(actx, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func assertTransaction(actx *AssertionContext, a Assertion) error {
	tx, err := actx.Ledger.Get(actx.Ctx, a.Transaction)
	if err != nil {
		return err
	}
	actual := "missing"
	if tx != nil {
		actual = string(tx.Status)
	}
	if actual != a.Status {
		return &AssertionError{
			Type:     AssertTransaction,
			Expected: fmt.Sprintf("transaction %d %s", a.Transaction, a.Status),
			Actual:   fmt.Sprintf("transaction %d %s", a.Transaction, actual),
		}
	}
	return nil
}

func assertCount(actx *AssertionContext, a Assertion) error {
	var (
		txs []model.Transaction
		err error
	)
	switch {
	case a.Type == AssertCompleted:
		txs, err = actx.Ledger.Completed(actx.Ctx)
	case a.Search != "":
		txs, err = actx.Ledger.SearchActive(actx.Ctx, a.Search)
	default:
		txs, err = actx.Ledger.Active(actx.Ctx)
	}
	if err != nil {
		return err
	}
	if len(txs) != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d transactions", *a.Count),
			Actual:   fmt.Sprintf("%d transactions %v", len(txs), ids(txs)),
		}
	}
	return nil
}

func assertReport(actx *AssertionContext, a Assertion) error {
	check := a.Report
	opts, err := reportOptions(check, actx.Location)
	if err != nil {
		return err
	}
	rep, err := report.Run(actx.Ctx, actx.Ledger, opts)
	if err != nil {
		return err
	}

	actual := make([]RowExpect, len(rep.Rows))
	for i, row := range rep.Rows {
		actual[i] = RowExpect{
			Period:   row.Period,
			CheckIn:  row.CheckIn,
			CheckOut: row.CheckOut,
			Total:    row.Total,
		}
	}
	if !rowsEqual(check.Rows, actual) {
		return &AssertionError{
			Type:     AssertReport,
			Expected: formatRows(check.Rows),
			Actual:   formatRows(actual),
		}
	}

	if s := check.Summary; s != nil {
		if s.CheckIns != nil && *s.CheckIns != rep.Summary.CheckIns {
			return &AssertionError{
				Type:     AssertReport,
				Expected: fmt.Sprintf("summary check_ins=%d", *s.CheckIns),
				Actual:   fmt.Sprintf("summary check_ins=%d", rep.Summary.CheckIns),
			}
		}
		if s.CheckOuts != nil && *s.CheckOuts != rep.Summary.CheckOuts {
			return &AssertionError{
				Type:     AssertReport,
				Expected: fmt.Sprintf("summary check_outs=%d", *s.CheckOuts),
				Actual:   fmt.Sprintf("summary check_outs=%d", rep.Summary.CheckOuts),
			}
		}
		if mean := report.FormatHours(rep.Summary.Turnaround.Mean); s.MeanHours != "" && s.MeanHours != mean {
			return &AssertionError{
				Type:     AssertReport,
				Expected: fmt.Sprintf("mean turnaround %s", s.MeanHours),
				Actual:   fmt.Sprintf("mean turnaround %s", mean),
			}
		}
	}
	return nil
}

func reportOptions(check *ReportCheck, loc *time.Location) (report.Options, error) {
	period, err := report.ParsePeriod(check.Period)
	if err != nil {
		return report.Options{}, err
	}
	kind, err := report.ParseKind(check.Kind)
	if err != nil {
		return report.Options{}, err
	}
	start, err := report.ParseDay(check.Start)
	if err != nil {
		return report.Options{}, fmt.Errorf("report start: %w", err)
	}
	end := start
	if check.End != "" {
		if end, err = report.ParseDay(check.End); err != nil {
			return report.Options{}, fmt.Errorf("report end: %w", err)
		}
	}
	return report.Options{
		Period:   period,
		Kind:     kind,
		Range:    report.Range{Start: start, End: end},
		Location: loc,
		FillGaps: check.FillGaps,
	}, nil
}

func rowsEqual(expected, actual []RowExpect) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return false
		}
	}
	return true
}

func formatRows(rows []RowExpect) string {
	if len(rows) == 0 {
		return "no rows"
	}
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprintf("%s in=%d out=%d total=%d", r.Period, r.CheckIn, r.CheckOut, r.Total)
	}
	return strings.Join(parts, "; ")
}

func ids(txs []model.Transaction) []int64 {
	out := make([]int64, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}
