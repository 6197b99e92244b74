package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-05"`), &d))
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 5, d.Day())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-05"`, string(out))
}

func TestDateUnmarshalTruncatesTimeSuffix(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-05T00:00:00Z"`), &d))
	assert.Equal(t, "2026-03-05", d.Format(DateLayout))
}

func TestDateUnmarshalNull(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())
}

func TestDateUnmarshalInvalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"05/03/2026"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
}

func TestDateMarshalZeroAsNull(t *testing.T) {
	out, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestDateValue(t *testing.T) {
	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	d := NewDate(time.Date(2026, 3, 5, 17, 45, 0, 0, time.Local))
	v, err = d.Value()
	require.NoError(t, err)
	ts, ok := v.(time.Time)
	require.True(t, ok)
	assert.Equal(t, "2026-03-05", ts.Format(DateLayout))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, 3, 5, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, "2026-03-05", d.Format(DateLayout))

	require.NoError(t, d.Scan("2026-12-31"))
	assert.Equal(t, "2026-12-31", d.Format(DateLayout))

	require.NoError(t, d.Scan([]byte("2025-01-01T00:00:00")))
	assert.Equal(t, "2025-01-01", d.Format(DateLayout))

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}
