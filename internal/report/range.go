package report

import "time"

// MaxDays caps the span of a report range. Longer ranges keep their first
// MaxDays days.
const MaxDays = 366

// Range is an inclusive span of calendar days.
type Range struct {
	Start Day `json:"start"`
	End   Day `json:"end"`
}

// Window returns the half-open interval [Start 00:00, End+1 00:00) in loc.
func (r Range) Window(loc *time.Location) (from, to time.Time) {
	return r.Start.Start(loc), r.End.AddDays(1).Start(loc)
}

// Days returns the number of calendar days covered, or 0 when End
// precedes Start.
func (r Range) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.ordinal()-r.Start.ordinal()) + 1
}

// Clamp shortens r to at most maxDays days by moving End.
func (r Range) Clamp(maxDays int) Range {
	if maxDays >= 1 && r.Days() > maxDays {
		r.End = r.Start.AddDays(maxDays - 1)
	}
	return r
}

// ResolveRange repairs caller input into a Range. Unparseable text is
// ignored; a single usable date yields a one-day range; an unordered pair
// is swapped. With no usable date the fallback is returned. The result is
// clamped to MaxDays.
func ResolveRange(startText, endText string, fallback Range) Range {
	return resolveRange(startText, endText, fallback).Clamp(MaxDays)
}

func resolveRange(startText, endText string, fallback Range) Range {
	start, startErr := ParseDay(startText)
	end, endErr := ParseDay(endText)

	switch {
	case startErr == nil && endErr == nil:
		if end.Before(start) {
			start, end = end, start
		}
		return Range{Start: start, End: end}
	case startErr == nil:
		return Range{Start: start, End: start}
	case endErr == nil:
		return Range{Start: end, End: end}
	default:
		return fallback
	}
}

// DefaultRange returns the last days calendar days ending on now's date in
// loc. days below 1 is treated as 1.
func DefaultRange(now time.Time, days int, loc *time.Location) Range {
	if days < 1 {
		days = 1
	}
	end := DayOf(now, loc)
	return Range{Start: end.AddDays(-(days - 1)), End: end}
}
