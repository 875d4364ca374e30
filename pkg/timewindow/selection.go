// Package timewindow selects records by their creation instant relative to a
// reference "now". A Selection is a closed set of variants; the Custom variant
// can only be built with both calendar bounds present.
package timewindow

import "time"

// Kind names a window variant on the wire.
type Kind string

const (
	KindWeekly    Kind = "weekly"
	KindMonthly   Kind = "monthly"
	KindQuarterly Kind = "quarterly"
	KindYearly    Kind = "yearly"
	KindCustom    Kind = "custom"
	KindAll       Kind = "all"
)

// Selection is implemented only by the variants declared in this package.
type Selection interface {
	Kind() Kind
	contains(ts, now time.Time) bool
	bounds(now time.Time) Range
}

// Range describes the effective bounds of a selection. Nil fields are open.
type Range struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Weekly keeps records created during the last seven days.
type Weekly struct{}

// Monthly keeps records created since the same instant one calendar month ago.
type Monthly struct{}

// Quarterly keeps records created since the same instant three calendar months ago.
type Quarterly struct{}

// Yearly keeps records created since the same instant one calendar year ago.
type Yearly struct{}

// All is the identity selection.
type All struct{}

// Custom keeps records created between two calendar days, both inclusive.
type Custom struct {
	from  time.Time
	until time.Time // exclusive, midnight after the last day
}

func (Weekly) Kind() Kind    { return KindWeekly }
func (Monthly) Kind() Kind   { return KindMonthly }
func (Quarterly) Kind() Kind { return KindQuarterly }
func (Yearly) Kind() Kind    { return KindYearly }
func (All) Kind() Kind       { return KindAll }
func (Custom) Kind() Kind    { return KindCustom }

func (Weekly) contains(ts, now time.Time) bool    { return !ts.Before(now.AddDate(0, 0, -7)) }
func (Monthly) contains(ts, now time.Time) bool   { return !ts.Before(AddMonthsClamped(now, -1)) }
func (Quarterly) contains(ts, now time.Time) bool { return !ts.Before(AddMonthsClamped(now, -3)) }
func (Yearly) contains(ts, now time.Time) bool    { return !ts.Before(AddMonthsClamped(now, -12)) }
func (All) contains(time.Time, time.Time) bool    { return true }

func (c Custom) contains(ts, _ time.Time) bool {
	return !ts.Before(c.from) && ts.Before(c.until)
}

func (Weekly) bounds(now time.Time) Range    { return openRange(now.AddDate(0, 0, -7)) }
func (Monthly) bounds(now time.Time) Range   { return openRange(AddMonthsClamped(now, -1)) }
func (Quarterly) bounds(now time.Time) Range { return openRange(AddMonthsClamped(now, -3)) }
func (Yearly) bounds(now time.Time) Range    { return openRange(AddMonthsClamped(now, -12)) }
func (All) bounds(time.Time) Range           { return Range{} }

func (c Custom) bounds(time.Time) Range {
	from := c.from
	to := c.until.Add(-time.Nanosecond)
	return Range{From: &from, To: &to}
}

// NewCustom builds a Custom selection spanning the calendar days of start and
// end in their own locations. ok is false when a bound is zero or start falls
// after end.
func NewCustom(start, end time.Time) (Custom, bool) {
	if start.IsZero() || end.IsZero() {
		return Custom{}, false
	}
	from := startOfDay(start)
	last := startOfDay(end)
	if last.Before(from) {
		return Custom{}, false
	}
	return Custom{from: from, until: last.AddDate(0, 0, 1)}, true
}

// Start returns the first included instant.
func (c Custom) Start() time.Time { return c.from }

// End returns the last included calendar day at midnight.
func (c Custom) End() time.Time { return c.until.AddDate(0, 0, -1) }

// Bounds reports the effective range of sel anchored at now. A nil selection
// behaves as All.
func Bounds(sel Selection, now time.Time) Range {
	if sel == nil {
		return Range{}
	}
	return sel.bounds(now)
}

// Contains reports whether ts falls inside sel anchored at now.
func Contains(sel Selection, ts, now time.Time) bool {
	if sel == nil {
		return true
	}
	return sel.contains(ts, now)
}

func openRange(from time.Time) Range {
	return Range{From: &from}
}
