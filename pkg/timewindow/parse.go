package timewindow

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var boundLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// numericDate matches input that commits to the ISO layouts; such input never
// falls through to natural-language parsing.
var numericDate = regexp.MustCompile(`^\d{4}-\d`)

// Parser turns loosely typed request values into a Selection. It never fails:
// unknown kinds fall back to a default and unusable custom bounds yield the
// identity selection.
type Parser struct {
	loc      *time.Location
	fallback Kind
	nlp      *when.Parser
}

// NewParser builds a parser resolving calendar days in loc. fallback is used
// for empty or unknown kinds and defaults to monthly.
func NewParser(loc *time.Location, fallback Kind) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	if _, ok := relative(fallback); !ok {
		fallback = KindMonthly
	}
	nlp := when.New(nil)
	nlp.Add(en.All...)
	nlp.Add(common.All...)
	return &Parser{loc: loc, fallback: fallback, nlp: nlp}
}

// Location returns the zone used for calendar days.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse resolves kind and, for custom windows only, the start and end bounds.
// Bounds passed alongside a relative kind are ignored.
func (p *Parser) Parse(kind, start, end string, now time.Time) Selection {
	k := Kind(strings.ToLower(strings.TrimSpace(kind)))
	switch k {
	case KindCustom:
		from, okFrom := p.ParseBound(start, now)
		to, okTo := p.ParseBound(end, now)
		if !okFrom || !okTo {
			return All{}
		}
		custom, ok := NewCustom(from, to)
		if !ok {
			return All{}
		}
		return custom
	case KindAll:
		return All{}
	}
	if sel, ok := relative(k); ok {
		return sel
	}
	sel, _ := relative(p.fallback)
	return sel
}

// ParseBound accepts an ISO date, an RFC3339 instant or an English phrase
// such as "yesterday" or "last friday" resolved against now. A phrase must
// match in full; partial matches and invalid calendar dates are rejected.
func (p *Parser) ParseBound(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range boundLayouts {
		if ts, err := time.ParseInLocation(layout, raw, p.loc); err == nil {
			return ts.In(p.loc), true
		}
	}
	if numericDate.MatchString(raw) {
		return time.Time{}, false
	}
	result, err := p.nlp.Parse(raw, now.In(p.loc))
	if err != nil || result == nil || result.Index != 0 || len(result.Text) != len(raw) {
		return time.Time{}, false
	}
	return result.Time.In(p.loc), true
}

// ParseKind validates a wire kind.
func ParseKind(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case KindWeekly, KindMonthly, KindQuarterly, KindYearly, KindCustom, KindAll:
		return k, true
	}
	return "", false
}

func relative(k Kind) (Selection, bool) {
	switch k {
	case KindWeekly:
		return Weekly{}, true
	case KindMonthly:
		return Monthly{}, true
	case KindQuarterly:
		return Quarterly{}, true
	case KindYearly:
		return Yearly{}, true
	}
	return nil, false
}
