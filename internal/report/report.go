package report

import (
	"context"
	"sort"
	"time"

	"github.com/roach88/desk/internal/model"
)

// Options configures a report.
type Options struct {
	Period Period
	Kind   Kind
	Range  Range

	// Location defines calendar days. Nil means UTC.
	Location *time.Location

	// FillGaps emits a zero row for every bucket in the range that has no
	// events. It has no effect when the selected stream is empty.
	FillGaps bool
}

// EventRow is one raw, unaggregated event.
type EventRow struct {
	Period        string          `json:"period"`
	Event         Event           `json:"event"`
	Timestamp     time.Time       `json:"timestamp"`
	TransactionID int64           `json:"transaction_id"`
	PersonID      model.PersonID  `json:"person_id"`
	AssetTag      string          `json:"asset_tag"`
	IssueType     model.IssueType `json:"issue_type"`
}

// AggregateRow is one period bucket of the pivot table.
type AggregateRow struct {
	Period   string `json:"period"`
	CheckIn  int    `json:"check_in"`
	CheckOut int    `json:"check_out"`
	Total    int    `json:"total"`
}

// BreakdownRow counts events for one issue type.
type BreakdownRow struct {
	IssueType model.IssueType `json:"issue_type"`
	CheckIn   int             `json:"check_in"`
	CheckOut  int             `json:"check_out"`
	Total     int             `json:"total"`
}

// Report is the full output of Generate.
type Report struct {
	Period    Period         `json:"period"`
	Kind      Kind           `json:"kind"`
	Range     Range          `json:"range"`
	Rows      []AggregateRow `json:"rows"`
	Events    []EventRow     `json:"events"`
	Breakdown []BreakdownRow `json:"breakdown"`
	Summary   Summary        `json:"summary"`
}

// Source supplies the ledger snapshot a report is computed from.
type Source interface {
	All(ctx context.Context) ([]model.Transaction, error)
}

// Run reads a snapshot from src and generates a report over it.
func Run(ctx context.Context, src Source, opts Options) (Report, error) {
	txs, err := src.All(ctx)
	if err != nil {
		return Report{}, err
	}
	return Generate(txs, opts), nil
}

// Generate computes a report over txs. It does not modify txs.
func Generate(txs []model.Transaction, opts Options) Report {
	opts = normalize(opts)
	loc := opts.Location
	from, to := opts.Range.Window(loc)
	inWindow := func(t time.Time) bool {
		return !t.Before(from) && t.Before(to)
	}

	events := []EventRow{}
	for _, tx := range txs {
		if opts.Kind != CheckOuts && inWindow(tx.CheckInAt) {
			events = append(events, newEventRow(opts, EventCheckIn, tx.CheckInAt, tx))
		}
		if opts.Kind != CheckIns && tx.CheckOutAt != nil && inWindow(*tx.CheckOutAt) {
			events = append(events, newEventRow(opts, EventCheckOut, *tx.CheckOutAt, tx))
		}
	}
	sortEvents(events)

	return Report{
		Period:    opts.Period,
		Kind:      opts.Kind,
		Range:     opts.Range,
		Rows:      aggregate(events, opts),
		Events:    events,
		Breakdown: breakdown(events),
		Summary:   summarize(txs, events, inWindow),
	}
}

func normalize(opts Options) Options {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Period == "" {
		opts.Period = Daily
	}
	if opts.Kind == "" {
		opts.Kind = Both
	}
	if opts.Range.End.Before(opts.Range.Start) {
		opts.Range.Start, opts.Range.End = opts.Range.End, opts.Range.Start
	}
	opts.Range = opts.Range.Clamp(MaxDays)
	return opts
}

func newEventRow(opts Options, event Event, at time.Time, tx model.Transaction) EventRow {
	return EventRow{
		Period:        opts.Period.Label(DayOf(at, opts.Location)),
		Event:         event,
		Timestamp:     at.In(opts.Location),
		TransactionID: tx.ID,
		PersonID:      tx.PersonID,
		AssetTag:      tx.AssetTag,
		IssueType:     tx.IssueType,
	}
}

// sortEvents orders rows by (period, timestamp, transaction id), with a
// CheckIn ahead of a CheckOut at the same instant.
func sortEvents(events []EventRow) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.TransactionID != b.TransactionID {
			return a.TransactionID < b.TransactionID
		}
		return a.Event < b.Event
	})
}

func aggregate(events []EventRow, opts Options) []AggregateRow {
	rows := []AggregateRow{}
	if len(events) == 0 {
		return rows
	}

	byPeriod := map[string]*AggregateRow{}
	var labels []string
	add := func(label string) *AggregateRow {
		if row, ok := byPeriod[label]; ok {
			return row
		}
		row := &AggregateRow{Period: label}
		byPeriod[label] = row
		labels = append(labels, label)
		return row
	}

	if opts.FillGaps {
		first, width := opts.Period.step(opts.Range.Start)
		for d := first; !opts.Range.End.Before(d); d = d.AddDays(width) {
			add(d.String())
		}
	}

	for _, e := range events {
		row := add(e.Period)
		switch e.Event {
		case EventCheckIn:
			row.CheckIn++
		case EventCheckOut:
			row.CheckOut++
		}
	}

	sort.Strings(labels)
	for _, label := range labels {
		row := byPeriod[label]
		row.Total = row.CheckIn + row.CheckOut
		rows = append(rows, *row)
	}
	return rows
}

func breakdown(events []EventRow) []BreakdownRow {
	byType := map[model.IssueType]*BreakdownRow{}
	for _, e := range events {
		t := e.IssueType
		if t == "" {
			t = model.IssueOther
		}
		row, ok := byType[t]
		if !ok {
			row = &BreakdownRow{IssueType: t}
			byType[t] = row
		}
		switch e.Event {
		case EventCheckIn:
			row.CheckIn++
		case EventCheckOut:
			row.CheckOut++
		}
		row.Total++
	}

	rows := make([]BreakdownRow, 0, len(byType))
	for _, row := range byType {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].IssueType < rows[j].IssueType
	})
	return rows
}
