package report

import (
	"strings"

	"github.com/roach88/desk/internal/model"
)

// Period selects the bucket size.
type Period string

const (
	Daily  Period = "daily"
	Weekly Period = "weekly"
)

// ParsePeriod resolves a period name, ignoring case. Empty means Daily.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	}
	return "", &model.ValidationError{Field: "period", Value: s, Reason: "must be daily or weekly"}
}

// Label returns the bucket label of d: the date itself for Daily, the
// Monday of its ISO week for Weekly.
func (p Period) Label(d Day) string {
	if p == Weekly {
		return d.Monday().String()
	}
	return d.String()
}

// step returns the first day of the bucket containing d and the bucket width.
func (p Period) step(d Day) (Day, int) {
	if p == Weekly {
		return d.Monday(), 7
	}
	return d, 1
}

// Kind selects which event stream a report covers.
type Kind string

const (
	CheckIns  Kind = "checkins"
	CheckOuts Kind = "checkouts"
	Both      Kind = "both"
)

// ParseKind resolves an event-kind name, ignoring case and dashes. Empty means Both.
func ParseKind(s string) (Kind, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "")
	switch Kind(key) {
	case "", Both:
		return Both, nil
	case CheckIns, "checkin":
		return CheckIns, nil
	case CheckOuts, "checkout":
		return CheckOuts, nil
	}
	return "", &model.ValidationError{Field: "kind", Value: s, Reason: "must be checkins, checkouts, or both"}
}

// Event labels a raw row.
type Event string

const (
	EventCheckIn  Event = "CheckIn"
	EventCheckOut Event = "CheckOut"
)
