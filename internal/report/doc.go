// Package report derives activity summaries from a snapshot of the ledger.
//
// A report is a pure function of the transactions it is given and its
// Options. It never touches the store. Each event type is windowed on its
// own timestamp: a transaction opened before the window and closed inside it
// contributes only a CheckOut event.
//
// The window for an inclusive calendar range [start, end] is the half-open
// interval [start 00:00, end+1 00:00) in the report's location, so the whole
// end day is included regardless of time of day.
package report
