package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTimestampUnmarshalJSONIsLenient(t *testing.T) {
	var payload struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
		C Timestamp `json:"c"`
		D Timestamp `json:"d"`
		E Timestamp `json:"e"`
	}
	raw := `{"a":"2024-05-01T08:30:00Z","b":"2024-05-02","c":"yesterday-ish","d":null,"e":12345}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	assert.True(t, payload.A.Valid)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), payload.A.Time.UTC())
	assert.True(t, payload.B.Valid)
	assert.Equal(t, 2, payload.B.Time.Day())
	assert.False(t, payload.C.Valid)
	assert.False(t, payload.D.Valid)
	assert.False(t, payload.E.Valid)
}

func TestTimestampMarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
	}{A: NewTimestamp(time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2024-05-01T08:30:00Z","b":null}`, string(out))
}

func TestTimestampUnmarshalYAML(t *testing.T) {
	var payload struct {
		A Timestamp `yaml:"a"`
		B Timestamp `yaml:"b"`
		C Timestamp `yaml:"c"`
	}
	raw := "a: 2024-05-01\nb: ~\nc: not a date\n"
	require.NoError(t, yaml.Unmarshal([]byte(raw), &payload))
	assert.True(t, payload.A.Valid)
	assert.False(t, payload.B.Valid)
	assert.False(t, payload.C.Valid)
}

func TestTimestampScan(t *testing.T) {
	var ts Timestamp
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ts.Scan(now))
	assert.True(t, ts.Valid)

	require.NoError(t, ts.Scan(nil))
	assert.False(t, ts.Valid)

	require.NoError(t, ts.Scan([]byte("2024-05-01 10:00:00")))
	assert.True(t, ts.Valid)

	require.NoError(t, ts.Scan("garbage"))
	assert.False(t, ts.Valid)

	require.NoError(t, ts.Scan(now))
	require.NoError(t, ts.Scan(42))
	assert.False(t, ts.Valid)

	value, err := Timestamp{}.Value()
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestParseTimestampInReadsZonelessValuesInLocation(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)

	day := ParseTimestampIn("2024-03-10", ny)
	require.True(t, day.Valid)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, ny), day.Time)

	clock := ParseTimestampIn("2024-03-10 18:45:00", ny)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 45, 0, 0, time.UTC), clock.Time.UTC())

	zoned := ParseTimestampIn("2024-03-10T08:00:00Z", ny)
	assert.Equal(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), zoned.Time.UTC())

	assert.False(t, ParseTimestampIn("2024-13-01", ny).Valid)
}

func TestTimestampInAnchorsOnlyFloatingValues(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)

	floating := ParseTimestamp("2024-03-10")
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, ny), floating.In(ny).Time)

	zoned := ParseTimestamp("2024-03-10T00:00:00Z")
	assert.True(t, zoned.In(ny).Time.Equal(zoned.Time))

	assert.False(t, Timestamp{}.In(ny).Valid)
}

func TestFacilityDatasetInLocation(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	data := FacilityDataset{
		ServiceRequests: []ServiceRequest{{ID: "sr", CreatedAt: ParseTimestamp("2024-03-10")}},
		WorkOrders:      []WorkOrder{{ID: "wo", DueDate: ParseTimestamp("2024-03-11 09:00:00")}},
		Assets:          []Asset{{ID: "a", CreatedAt: ParseTimestamp("2024-01-01")}},
	}

	anchored := data.InLocation(ny)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, ny), anchored.ServiceRequests[0].CreatedAt.Time)
	assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, ny), anchored.WorkOrders[0].DueDate.Time)
	assert.Equal(t, ny, anchored.Assets[0].CreatedAt.Time.Location())
	assert.Equal(t, time.UTC, data.ServiceRequests[0].CreatedAt.Time.Location())
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "in-progress", NormalizeStatus("In Progress"))
	assert.Equal(t, "in-progress", NormalizeStatus(" in_progress "))
	assert.Equal(t, "in-progress", NormalizeStatus("IN-PROGRESS"))
	assert.Equal(t, "", NormalizeStatus("  "))
}

func TestWorkOrderIsOverdue(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	past := NewTimestamp(now.Add(-time.Hour))
	future := NewTimestamp(now.Add(time.Hour))

	assert.True(t, WorkOrder{Status: WorkOrderPending, DueDate: past}.IsOverdue(now))
	assert.False(t, WorkOrder{Status: "Completed", DueDate: past}.IsOverdue(now))
	assert.False(t, WorkOrder{Status: WorkOrderPending, DueDate: future}.IsOverdue(now))
	assert.False(t, WorkOrder{Status: WorkOrderPending}.IsOverdue(now))
}
