package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTimestamp(s, nil)
	require.True(t, ok)
	assert.Equal(t, s, got.UTC().Format(time.RFC3339))
}

func TestParseTimestampUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTimestamp(strconv.FormatInt(ts, 10), time.UTC)
	require.True(t, ok)
	assert.Equal(t, ts, got.Unix())
}

func TestParseTimestampLayouts(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, ok := ParseTimestamp("2024-03-01 09:30:15", ny)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 15, 0, ny), got)

	got, ok = ParseTimestamp("2024-03-01 09:30", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), got)

	got, ok = ParseTimestamp("2024-03-01T09:30:00+02:00", ny)
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T07:30:00Z", got.UTC().Format(time.RFC3339))

	_, ok = ParseTimestamp("yesterday", time.UTC)
	assert.False(t, ok)
}

func TestSplitDateTime(t *testing.T) {
	d, c := SplitDateTime("2024-03-01 09:30:00")
	assert.Equal(t, "2024-03-01", d)
	assert.Equal(t, "09:30:00", c)

	d, c = SplitDateTime("2024-03-01")
	assert.Equal(t, "2024-03-01", d)
	assert.Empty(t, c)
}

func TestDayKeyUsesLocation(t *testing.T) {
	ts := time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", DayKey(ts, nil))
	assert.Equal(t, "2024-03-01", DayKey(ts, ny))
}

func TestDayBounds(t *testing.T) {
	from, to := DayBounds("2024-03-01", "2024-03-02", time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999999, time.UTC), to)

	from, to = DayBounds("", "", time.UTC)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}
