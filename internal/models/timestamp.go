package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a nullable instant. Decoding never fails: values that cannot be
// parsed produce an invalid Timestamp so one bad record cannot abort a batch.
// Text without a zone decodes as floating wall-clock time until anchored
// with In.
type Timestamp struct {
	Time  time.Time
	Valid bool

	floating bool
}

// NewTimestamp wraps t, treating the zero time as invalid.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: !t.IsZero()}
}

// ParseTimestamp parses raw using the accepted layouts. Zoneless values are
// floating: they read as UTC until anchored with In.
func ParseTimestamp(raw string) Timestamp {
	ts, zoned := parseTimestamp(raw, time.UTC)
	ts.floating = ts.Valid && !zoned
	return ts
}

// ParseTimestampIn parses raw, reading zoneless values as wall-clock time in
// loc.
func ParseTimestampIn(raw string, loc *time.Location) Timestamp {
	if loc == nil {
		loc = time.UTC
	}
	ts, _ := parseTimestamp(raw, loc)
	return ts
}

func parseTimestamp(raw string, loc *time.Location) (ts Timestamp, zoned bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return NewTimestamp(t), true
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return NewTimestamp(t), false
		}
	}
	return Timestamp{}, false
}

// In anchors a floating timestamp to the same wall-clock time in loc. Zoned
// and invalid timestamps are returned unchanged.
func (t Timestamp) In(loc *time.Location) Timestamp {
	if !t.Valid || !t.floating || loc == nil {
		return t
	}
	y, m, d := t.Time.Date()
	hh, mm, ss := t.Time.Clock()
	return NewTimestamp(time.Date(y, m, d, hh, mm, ss, t.Time.Nanosecond(), loc))
}

// Get returns the instant and whether it is usable.
func (t Timestamp) Get() (time.Time, bool) {
	return t.Time, t.Valid
}

// Ptr returns nil for invalid timestamps.
func (t Timestamp) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}

// Scan implements sql.Scanner. Unparseable text columns and unsupported driver
// types scan as invalid rather than failing the row.
func (t *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = Timestamp{}
	case time.Time:
		*t = NewTimestamp(v)
	case []byte:
		*t = ParseTimestamp(string(v))
	case string:
		*t = ParseTimestamp(v)
	default:
		*t = Timestamp{}
	}
	return nil
}

// MarshalJSON renders RFC3339 or null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// UnmarshalJSON accepts strings in any supported layout; anything else yields
// an invalid Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var raw string
	if len(data) == 0 || data[0] != '"' || json.Unmarshal(data, &raw) != nil {
		*t = Timestamp{}
		return nil
	}
	*t = ParseTimestamp(raw)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for fixture files.
func (t *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.ShortTag() == "!!null" {
		*t = Timestamp{}
		return nil
	}
	*t = ParseTimestamp(node.Value)
	return nil
}
