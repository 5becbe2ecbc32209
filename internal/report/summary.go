package report

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/desk/internal/model"
)

// NoData is how an undefined statistic is rendered.
const NoData = "no data"

// hourPlaces is the precision turnaround hours are rounded to.
const hourPlaces = 2

// Summary holds the headline metrics of a report.
type Summary struct {
	CheckIns   int        `json:"check_ins"`
	CheckOuts  int        `json:"check_outs"`
	Events     int        `json:"events"`
	Turnaround Turnaround `json:"turnaround"`
}

// Turnaround describes check-in to check-out durations, in hours, for
// closed transactions whose check-in and check-out both fall in the window.
// Every statistic is invalid when Count is zero.
type Turnaround struct {
	Count  int                 `json:"count"`
	Mean   decimal.NullDecimal `json:"mean_hours"`
	Median decimal.NullDecimal `json:"median_hours"`
	Min    decimal.NullDecimal `json:"min_hours"`
	Max    decimal.NullDecimal `json:"max_hours"`
}

// MarshalJSON renders valid statistics as fixed two-place strings and
// invalid ones as null.
func (t Turnaround) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count  int     `json:"count"`
		Mean   *string `json:"mean_hours"`
		Median *string `json:"median_hours"`
		Min    *string `json:"min_hours"`
		Max    *string `json:"max_hours"`
	}{
		Count:  t.Count,
		Mean:   fixedOrNil(t.Mean),
		Median: fixedOrNil(t.Median),
		Min:    fixedOrNil(t.Min),
		Max:    fixedOrNil(t.Max),
	})
}

// FormatHours renders a statistic with two decimal places, or NoData.
func FormatHours(d decimal.NullDecimal) string {
	if !d.Valid {
		return NoData
	}
	return d.Decimal.StringFixed(hourPlaces)
}

func fixedOrNil(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(hourPlaces)
	return &s
}

func summarize(txs []model.Transaction, events []EventRow, inWindow func(time.Time) bool) Summary {
	var s Summary
	for _, e := range events {
		switch e.Event {
		case EventCheckIn:
			s.CheckIns++
		case EventCheckOut:
			s.CheckOuts++
		}
	}
	s.Events = s.CheckIns + s.CheckOuts

	var hours []decimal.Decimal
	for _, tx := range txs {
		if !tx.IsClosed() || tx.CheckOutAt == nil {
			continue
		}
		if !inWindow(tx.CheckInAt) || !inWindow(*tx.CheckOutAt) {
			continue
		}
		d, _ := tx.Turnaround()
		hours = append(hours, durationHours(d))
	}
	s.Turnaround = turnaroundStats(hours)
	return s
}

func durationHours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d)).Div(decimal.NewFromInt(int64(time.Hour)))
}

func turnaroundStats(hours []decimal.Decimal) Turnaround {
	t := Turnaround{Count: len(hours)}
	if len(hours) == 0 {
		return t
	}

	sorted := append([]decimal.Decimal(nil), hours...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	n := len(sorted)
	mean := decimal.Sum(sorted[0], sorted[1:]...).Div(decimal.NewFromInt(int64(n)))

	var median decimal.Decimal
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
	}

	t.Mean = valid(mean)
	t.Median = valid(median)
	t.Min = valid(sorted[0])
	t.Max = valid(sorted[n-1])
	return t
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d.Round(hourPlaces), Valid: true}
}
