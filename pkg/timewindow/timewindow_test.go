package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stamped struct {
	id    string
	ts    time.Time
	valid bool
}

func stampOf(r stamped) (time.Time, bool) { return r.ts, r.valid }

func ids(records []stamped) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.id)
	}
	return out
}

func daysAgo(now time.Time, id string, days int) stamped {
	return stamped{id: id, ts: now.AddDate(0, 0, -days), valid: true}
}

func TestFilterRelativeWindows(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	records := []stamped{
		daysAgo(now, "d1", 1),
		daysAgo(now, "d6", 6),
		daysAgo(now, "d8", 8),
		daysAgo(now, "d20", 20),
		daysAgo(now, "d40", 40),
		daysAgo(now, "d80", 80),
		daysAgo(now, "d100", 100),
		daysAgo(now, "d200", 200),
		daysAgo(now, "d400", 400),
		{id: "future", ts: now.Add(24 * time.Hour), valid: true},
		{id: "broken"},
	}

	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"weekly", Weekly{}, []string{"d1", "d6", "future"}},
		{"monthly", Monthly{}, []string{"d1", "d6", "d8", "d20", "future"}},
		{"quarterly", Quarterly{}, []string{"d1", "d6", "d8", "d20", "d40", "d80", "future"}},
		{"yearly", Yearly{}, []string{"d1", "d6", "d8", "d20", "d40", "d80", "d100", "d200", "future"}},
		{"all keeps everything", All{}, ids(records)},
		{"nil behaves as all", nil, ids(records)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(records, tc.sel, now, stampOf)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterRelativeWindowsAreMonotonic(t *testing.T) {
	now := time.Date(2024, 3, 31, 8, 30, 0, 0, time.UTC)
	var records []stamped
	for d := 0; d < 400; d += 3 {
		records = append(records, daysAgo(now, time.Duration(d).String(), d))
	}

	ordered := []Selection{Weekly{}, Monthly{}, Quarterly{}, Yearly{}}
	for i := 1; i < len(ordered); i++ {
		narrow := ids(Filter(records, ordered[i-1], now, stampOf))
		wide := ids(Filter(records, ordered[i], now, stampOf))
		assert.Subset(t, wide, narrow, "%s should contain %s", ordered[i].Kind(), ordered[i-1].Kind())
		assert.GreaterOrEqual(t, len(wide), len(narrow))
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	records := []stamped{daysAgo(now, "old", 30), daysAgo(now, "new", 1)}
	got := Filter(records, Weekly{}, now, stampOf)
	require.Len(t, got, 1)
	got[0].id = "changed"
	assert.Equal(t, []string{"old", "new"}, ids(records))
}

func TestCustomSameDayIsInclusive(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	sel, ok := NewCustom(day, day)
	require.True(t, ok)

	records := []stamped{
		{id: "before", ts: day.Add(-time.Second), valid: true},
		{id: "midnight", ts: day, valid: true},
		{id: "late", ts: day.Add(24*time.Hour - time.Second), valid: true},
		{id: "after", ts: day.Add(24 * time.Hour), valid: true},
		{id: "broken"},
	}
	got := Filter(records, sel, time.Now(), stampOf)
	assert.Equal(t, []string{"midnight", "late"}, ids(got))

	bounds := Bounds(sel, time.Now())
	require.NotNil(t, bounds.From)
	require.NotNil(t, bounds.To)
	assert.Equal(t, day, *bounds.From)
	assert.Equal(t, day.Add(24*time.Hour-time.Nanosecond), *bounds.To)
}

func TestNewCustomRejectsMissingOrInvertedBounds(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	_, ok := NewCustom(time.Time{}, feb)
	assert.False(t, ok)
	_, ok = NewCustom(jan, time.Time{})
	assert.False(t, ok)
	_, ok = NewCustom(feb, jan)
	assert.False(t, ok)

	sel, ok := NewCustom(jan.Add(15*time.Hour), feb.Add(3*time.Hour))
	require.True(t, ok)
	assert.Equal(t, jan, sel.Start())
	assert.Equal(t, feb, sel.End())
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC), -1, time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)},
		{time.Date(2023, 3, 31, 9, 0, 0, 0, time.UTC), -1, time.Date(2023, 2, 28, 9, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), -1, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), -3, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), -12, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), -1, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, AddMonthsClamped(tc.in, tc.months), "%s %+d months", tc.in.Format("2006-01-02"), tc.months)
	}
}

func TestMonthlyWindowClampsAtMonthEnd(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	records := []stamped{
		{id: "feb28", ts: time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC), valid: true},
		{id: "feb29", ts: time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), valid: true},
		{id: "mar01", ts: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), valid: true},
	}
	got := Filter(records, Monthly{}, now, stampOf)
	assert.Equal(t, []string{"feb29", "mar01"}, ids(got))
}

func TestParserParse(t *testing.T) {
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	p := NewParser(time.UTC, KindMonthly)

	assert.Equal(t, KindWeekly, p.Parse("weekly", "2024-01-01", "2024-01-31", now).Kind(), "stale custom bounds are ignored")
	assert.Equal(t, KindQuarterly, p.Parse(" Quarterly ", "", "", now).Kind())
	assert.Equal(t, KindYearly, p.Parse("YEARLY", "", "", now).Kind())
	assert.Equal(t, KindMonthly, p.Parse("", "", "", now).Kind())
	assert.Equal(t, KindMonthly, p.Parse("fortnightly", "", "", now).Kind())
	assert.Equal(t, KindAll, p.Parse("all", "", "", now).Kind())

	assert.Equal(t, KindAll, p.Parse("custom", "", "2024-01-31", now).Kind(), "missing start")
	assert.Equal(t, KindAll, p.Parse("custom", "2024-01-01", "", now).Kind(), "missing end")
	assert.Equal(t, KindAll, p.Parse("custom", "2024-02-01", "2024-01-01", now).Kind(), "inverted")
	assert.Equal(t, KindAll, p.Parse("custom", "???", "2024-01-01", now).Kind(), "unparseable")
	assert.Equal(t, KindAll, p.Parse("custom", "2024-02-30", "2024-06-30", now).Kind(), "impossible day")
	assert.Equal(t, KindAll, p.Parse("custom", "2024-13-01", "2024-12-31", now).Kind(), "impossible month")
	assert.Equal(t, KindAll, p.Parse("custom", "garbage at 5pm", "2024-05-15", now).Kind(), "partial phrase")

	sel := p.Parse("custom", "2024-01-01", "2024-01-31", now)
	custom, ok := sel.(Custom)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), custom.Start())
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), custom.End())
}

func TestParserParseNaturalLanguageBound(t *testing.T) {
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	p := NewParser(time.UTC, KindWeekly)

	sel := p.Parse("custom", "yesterday", "2024-05-15", now)
	custom, ok := sel.(Custom)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), custom.Start())
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), custom.End())
}

func TestParserParseBoundRejectsMalformedInput(t *testing.T) {
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	p := NewParser(time.UTC, KindMonthly)

	for _, raw := range []string{"2024-02-30", "2024-13-01", "2024-5-1", "2024-05-15T25:00:00Z", "garbage at 5pm", "yesterday or so"} {
		_, ok := p.ParseBound(raw, now)
		assert.False(t, ok, raw)
	}

	got, ok := p.ParseBound("2024-02-29", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)
}

func TestParserUsesLocationForCalendarDays(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	p := NewParser(jakarta, KindMonthly)
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

	sel := p.Parse("custom", "2024-05-10", "2024-05-10", now)
	custom, ok := sel.(Custom)
	require.True(t, ok)

	lateUTC := time.Date(2024, 5, 9, 18, 30, 0, 0, time.UTC) // 01:30 on May 10 in WIB
	assert.True(t, Contains(custom, lateUTC, now))
	assert.False(t, Contains(custom, time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC), now))
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Custom")
	assert.True(t, ok)
	assert.Equal(t, KindCustom, k)
	_, ok = ParseKind("daily")
	assert.False(t, ok)
}
