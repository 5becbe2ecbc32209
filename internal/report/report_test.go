package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/desk/internal/model"
)

func at(s string) time.Time {
	t, err := time.Parse(time.DateTime, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func open(id int64, in string) model.Transaction {
	return model.Transaction{
		ID:        id,
		PersonID:  model.PersonID(1000 + id),
		AssetTag:  "PC-7",
		IssueType: model.IssueHardwareFailure,
		CheckInAt: at(in),
		Status:    model.StatusOpen,
	}
}

func closed(id int64, in, out string) model.Transaction {
	tx := open(id, in)
	tx.CheckOutAt = ptr(at(out))
	tx.Status = model.StatusClosed
	return tx
}

func days(start, end string) Range {
	s, err := ParseDay(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseDay(end)
	if err != nil {
		panic(err)
	}
	return Range{Start: s, End: e}
}

func TestGenerate_SingleDayScenario(t *testing.T) {
	txs := []model.Transaction{closed(1, "2024-01-01 10:00:00", "2024-01-01 13:00:00")}

	r := Generate(txs, Options{Period: Daily, Kind: Both, Range: days("2024-01-01", "2024-01-01")})

	require.Len(t, r.Rows, 1)
	assert.Equal(t, AggregateRow{Period: "2024-01-01", CheckIn: 1, CheckOut: 1, Total: 2}, r.Rows[0])
	require.Len(t, r.Events, 2)
	assert.Equal(t, EventCheckIn, r.Events[0].Event)
	assert.Equal(t, EventCheckOut, r.Events[1].Event)
}

func TestGenerate_WeeklyLabels(t *testing.T) {
	txs := []model.Transaction{
		open(1, "2024-01-01 10:00:00"),
		open(2, "2024-01-08 10:00:00"),
		open(3, "2024-01-03 09:00:00"),
		open(4, "2024-01-04 17:00:00"),
	}

	r := Generate(txs, Options{Period: Weekly, Kind: CheckIns, Range: days("2024-01-01", "2024-01-14")})

	labels := map[int64]string{}
	for _, e := range r.Events {
		labels[e.TransactionID] = e.Period
	}
	assert.NotEqual(t, labels[1], labels[2], "same weekday a week apart must differ")
	assert.Equal(t, labels[3], labels[4], "Wed and Thu of one ISO week must match")
	assert.Equal(t, "2024-01-01", labels[3])
	assert.Equal(t, "2024-01-08", labels[2])

	require.Len(t, r.Rows, 2)
	assert.Equal(t, AggregateRow{Period: "2024-01-01", CheckIn: 3, Total: 3}, r.Rows[0])
	assert.Equal(t, AggregateRow{Period: "2024-01-08", CheckIn: 1, Total: 1}, r.Rows[1])
}

func TestGenerate_WeeklySundayBelongsToPriorMonday(t *testing.T) {
	txs := []model.Transaction{open(1, "2024-01-07 23:00:00")}

	r := Generate(txs, Options{Period: Weekly, Kind: Both, Range: days("2024-01-07", "2024-01-07")})

	require.Len(t, r.Rows, 1)
	assert.Equal(t, "2024-01-01", r.Rows[0].Period)
}

func TestGenerate_InclusiveEndDay(t *testing.T) {
	txs := []model.Transaction{closed(1, "2024-03-01 08:00:00", "2024-03-05 23:59:59")}

	included := Generate(txs, Options{Kind: CheckOuts, Range: days("2024-03-01", "2024-03-05")})
	require.Len(t, included.Events, 1)
	assert.Equal(t, 1, included.Summary.CheckOuts)

	excluded := Generate(txs, Options{Kind: CheckOuts, Range: days("2024-03-01", "2024-03-04")})
	assert.Empty(t, excluded.Events)
	assert.Empty(t, excluded.Rows)
}

func TestGenerate_EmptyRange(t *testing.T) {
	txs := []model.Transaction{closed(1, "2024-01-01 10:00:00", "2024-01-01 11:00:00")}

	r := Generate(txs, Options{Range: days("2025-06-01", "2025-06-30"), FillGaps: true})

	assert.NotNil(t, r.Rows)
	assert.Empty(t, r.Rows, "gap filling must not apply to an empty stream")
	assert.NotNil(t, r.Events)
	assert.Empty(t, r.Events)
	assert.Empty(t, r.Breakdown)
	assert.Equal(t, 0, r.Summary.Events)
	assert.Equal(t, 0, r.Summary.Turnaround.Count)
	assert.Equal(t, NoData, FormatHours(r.Summary.Turnaround.Mean))
}

func TestGenerate_EventsWindowedIndependently(t *testing.T) {
	// Opened before the window, closed inside it.
	txs := []model.Transaction{closed(1, "2024-02-28 10:00:00", "2024-03-02 10:00:00")}

	r := Generate(txs, Options{Kind: Both, Range: days("2024-03-01", "2024-03-31")})

	require.Len(t, r.Events, 1)
	assert.Equal(t, EventCheckOut, r.Events[0].Event)
	assert.Equal(t, 0, r.Summary.CheckIns)
	assert.Equal(t, 1, r.Summary.CheckOuts)
	assert.Equal(t, 0, r.Summary.Turnaround.Count, "turnaround needs both timestamps in range")
}

func TestGenerate_KindSelection(t *testing.T) {
	txs := []model.Transaction{
		closed(1, "2024-01-01 10:00:00", "2024-01-02 10:00:00"),
		open(2, "2024-01-02 11:00:00"),
	}
	rng := days("2024-01-01", "2024-01-02")

	tests := []struct {
		kind      Kind
		checkIns  int
		checkOuts int
	}{
		{CheckIns, 2, 0},
		{CheckOuts, 0, 1},
		{Both, 2, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			r := Generate(txs, Options{Kind: tt.kind, Range: rng})
			assert.Equal(t, tt.checkIns, r.Summary.CheckIns)
			assert.Equal(t, tt.checkOuts, r.Summary.CheckOuts)
			assert.Equal(t, tt.checkIns+tt.checkOuts, r.Summary.Events)
			assert.Len(t, r.Events, tt.checkIns+tt.checkOuts)
			// Turnaround ignores the selected kind.
			assert.Equal(t, 1, r.Summary.Turnaround.Count)
		})
	}
}

func TestGenerate_RawRowOrder(t *testing.T) {
	txs := []model.Transaction{
		closed(3, "2024-01-01 09:00:00", "2024-01-02 08:00:00"),
		open(2, "2024-01-01 09:00:00"),
		open(1, "2024-01-02 07:00:00"),
	}

	r := Generate(txs, Options{Range: days("2024-01-01", "2024-01-02")})

	type key struct {
		id    int64
		event Event
	}
	var got []key
	for _, e := range r.Events {
		got = append(got, key{e.TransactionID, e.Event})
	}
	assert.Equal(t, []key{
		{2, EventCheckIn},
		{3, EventCheckIn},
		{1, EventCheckIn},
		{3, EventCheckOut},
	}, got)
}

func TestGenerate_SameInstantCheckInFirst(t *testing.T) {
	txs := []model.Transaction{closed(1, "2024-01-01 10:00:00", "2024-01-01 10:00:00")}

	r := Generate(txs, Options{Range: days("2024-01-01", "2024-01-01")})

	require.Len(t, r.Events, 2)
	assert.Equal(t, EventCheckIn, r.Events[0].Event)
	assert.Equal(t, EventCheckOut, r.Events[1].Event)
}

func TestGenerate_FillGaps(t *testing.T) {
	txs := []model.Transaction{
		open(1, "2024-01-01 10:00:00"),
		open(2, "2024-01-04 10:00:00"),
	}

	r := Generate(txs, Options{Range: days("2024-01-01", "2024-01-05"), FillGaps: true})

	var labels []string
	for _, row := range r.Rows {
		labels = append(labels, row.Period)
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}, labels)
	assert.Equal(t, 0, r.Rows[1].Total)

	sparse := Generate(txs, Options{Range: days("2024-01-01", "2024-01-05")})
	assert.Len(t, sparse.Rows, 2)
}

func TestGenerate_FillGapsBoundedRange(t *testing.T) {
	txs := []model.Transaction{open(1, "2024-03-04 10:00:00")}

	r := Generate(txs, Options{Range: days("0001-01-01", "9999-12-31"), FillGaps: true})

	assert.Equal(t, days("0001-01-01", "0002-01-01"), r.Range)
	assert.Empty(t, r.Rows)
	assert.Empty(t, r.Events)

	r = Generate(txs, Options{Range: days("2024-03-01", "2099-01-01"), FillGaps: true})
	assert.Equal(t, days("2024-03-01", "2025-03-01"), r.Range)
	assert.Len(t, r.Rows, MaxDays)
	assert.Equal(t, 1, r.Summary.CheckIns)
}

func TestGenerate_FillGapsWeekly(t *testing.T) {
	txs := []model.Transaction{open(1, "2024-01-10 10:00:00")}

	r := Generate(txs, Options{Period: Weekly, Range: days("2024-01-03", "2024-01-24"), FillGaps: true})

	var labels []string
	for _, row := range r.Rows {
		labels = append(labels, row.Period)
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}, labels)
}

func TestGenerate_Location(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	// 03:00 UTC on Jan 2 is 22:00 on Jan 1 in EST.
	txs := []model.Transaction{open(1, "2024-01-02 03:00:00")}

	utc := Generate(txs, Options{Range: days("2024-01-02", "2024-01-02")})
	require.Len(t, utc.Rows, 1)
	assert.Equal(t, "2024-01-02", utc.Rows[0].Period)

	local := Generate(txs, Options{Range: days("2024-01-01", "2024-01-01"), Location: est})
	require.Len(t, local.Rows, 1)
	assert.Equal(t, "2024-01-01", local.Rows[0].Period)
	assert.Equal(t, est, local.Events[0].Timestamp.Location())
}

func TestGenerate_Breakdown(t *testing.T) {
	lockout := open(2, "2024-01-01 11:00:00")
	lockout.IssueType = model.IssueAccountLockout
	software := open(3, "2024-01-01 12:00:00")
	software.IssueType = model.IssueSoftwareRequest

	txs := []model.Transaction{
		closed(1, "2024-01-01 10:00:00", "2024-01-01 12:00:00"),
		lockout,
		software,
	}

	r := Generate(txs, Options{Range: days("2024-01-01", "2024-01-01")})

	assert.Equal(t, []BreakdownRow{
		{IssueType: model.IssueHardwareFailure, CheckIn: 1, CheckOut: 1, Total: 2},
		{IssueType: model.IssueAccountLockout, CheckIn: 1, Total: 1},
		{IssueType: model.IssueSoftwareRequest, CheckIn: 1, Total: 1},
	}, r.Breakdown)
}

func TestGenerate_TurnaroundStats(t *testing.T) {
	txs := []model.Transaction{
		closed(1, "2024-01-01 08:00:00", "2024-01-01 09:00:00"),
		closed(2, "2024-01-01 08:00:00", "2024-01-01 10:00:00"),
		closed(3, "2024-01-01 08:00:00", "2024-01-01 12:00:00"),
		open(4, "2024-01-01 08:00:00"),
	}

	r := Generate(txs, Options{Range: days("2024-01-01", "2024-01-01")})
	ta := r.Summary.Turnaround

	assert.Equal(t, 3, ta.Count)
	assert.Equal(t, "2.33", FormatHours(ta.Mean))
	assert.Equal(t, "2.00", FormatHours(ta.Median))
	assert.Equal(t, "1.00", FormatHours(ta.Min))
	assert.Equal(t, "4.00", FormatHours(ta.Max))
}

func TestGenerate_TurnaroundEvenMedian(t *testing.T) {
	txs := []model.Transaction{
		closed(1, "2024-01-01 08:00:00", "2024-01-01 09:00:00"),
		closed(2, "2024-01-01 08:00:00", "2024-01-01 08:30:00"),
	}

	r := Generate(txs, Options{Range: days("2024-01-01", "2024-01-01")})

	assert.Equal(t, "0.75", FormatHours(r.Summary.Turnaround.Median))
	assert.Equal(t, "0.75", FormatHours(r.Summary.Turnaround.Mean))
}

func TestGenerate_DoesNotMutateInput(t *testing.T) {
	txs := []model.Transaction{
		open(2, "2024-01-02 10:00:00"),
		open(1, "2024-01-01 10:00:00"),
	}
	before := append([]model.Transaction(nil), txs...)

	Generate(txs, Options{Range: days("2024-01-01", "2024-01-02")})

	assert.Equal(t, before, txs)
}

func TestGenerate_UnorderedRangeIsRepaired(t *testing.T) {
	txs := []model.Transaction{open(1, "2024-01-02 10:00:00")}

	r := Generate(txs, Options{Range: Range{Start: days("2024-01-03", "2024-01-03").Start, End: days("2024-01-01", "2024-01-01").Start}})

	assert.Equal(t, "2024-01-01", r.Range.Start.String())
	assert.Len(t, r.Events, 1)
}

type stubSource struct {
	txs []model.Transaction
	err error
}

func (s stubSource) All(context.Context) ([]model.Transaction, error) {
	return s.txs, s.err
}

func TestRun(t *testing.T) {
	src := stubSource{txs: []model.Transaction{open(1, "2024-01-01 10:00:00")}}

	r, err := Run(context.Background(), src, Options{Range: days("2024-01-01", "2024-01-01")})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Summary.CheckIns)

	_, err = Run(context.Background(), stubSource{err: errors.New("boom")}, Options{})
	assert.EqualError(t, err, "boom")
}

func goldenReport() Report {
	lockout := open(2, "2024-01-02 09:00:00")
	lockout.PersonID = 1002
	lockout.AssetTag = "LT-2"
	lockout.IssueType = model.IssueAccountLockout

	first := closed(1, "2024-01-01 10:00:00", "2024-01-01 13:00:00")

	return Generate([]model.Transaction{first, lockout}, Options{
		Period:   Daily,
		Kind:     Both,
		Range:    days("2024-01-01", "2024-01-02"),
		FillGaps: true,
	})
}

func TestGolden_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, goldenReport(), true))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "daily_both_text", buf.Bytes())
}

func TestGolden_JSON(t *testing.T) {
	data, err := json.MarshalIndent(goldenReport(), "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "daily_both_json", data)
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	r := Generate(nil, Options{Range: days("2024-01-01", "2024-01-07")})

	require.NoError(t, WriteText(&buf, r, true))
	out := buf.String()
	assert.Contains(t, out, "No events in range.")
	assert.Contains(t, out, "no data")
	assert.NotContains(t, out, "PERIOD")
}
